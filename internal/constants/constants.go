package constants

// 订单状态常量
const (
	OrderStatusCompleted = "completed"
	OrderStatusVoided    = "voided"
)

// 支付方式常量
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// 优惠券状态常量
const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

// 优惠券类型常量
const (
	CouponTypeFixed        = "fixed"
	CouponTypePercent      = "percent"
	CouponTypeFreeShipping = "free_shipping"
)

// 促销活动状态常量
const (
	PromotionStatusActive    = "active"
	PromotionStatusInactive  = "inactive"
	PromotionStatusScheduled = "scheduled"
)

// 促销条件类型常量
const (
	ConditionTypeMinAmount       = "MIN_AMOUNT"
	ConditionTypeMinQuantity     = "MIN_QUANTITY"
	ConditionTypeSpecificProduct = "SPECIFIC_PRODUCT"
)

// 促销动作类型常量
const (
	ActionTypePercentDiscount = "percent_discount"
	ActionTypeFixedDiscount   = "fixed_discount"
)

// 规格适用模式常量
const (
	VariantModeAll      = "all_variants"
	VariantModeSpecific = "specific_variants"
)

// 库存流水类型常量
const (
	StockMovementTypeSale       = "sale"
	StockMovementTypeVoid       = "void"
	StockMovementTypeAdjustment = "adjustment"
	StockMovementTypeRestock    = "restock"
)

// 员工角色常量
const (
	StaffRoleManager = "manager"
	StaffRoleCashier = "cashier"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskPromotionRollover = "promotion:rollover"
	TaskInventoryLowStock = "inventory:low_stock"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "pn"
)
