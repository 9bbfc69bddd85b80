package domain

// Role values stored on users.role.
const (
	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

// Subscription tiers.
const (
	TierNone   = "none"
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Booking statuses.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingProcessing = "processing"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking types.
const (
	BookingTypeFlight  = "flight"
	BookingTypePackage = "package"
	BookingTypeHotel   = "hotel"
	BookingTypeCustom  = "custom"
)

// Trip types.
const (
	TripOneWay    = "one_way"
	TripRoundTrip = "round_trip"
	TripMultiCity = "multi_city"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Quote statuses.
const (
	QuotePending  = "pending"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteExpired  = "expired"
)

// Contact message statuses.
const (
	ContactNew        = "new"
	ContactInProgress = "in_progress"
	ContactResolved   = "resolved"
)

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Clamp normalizes page/page_size into sane bounds.
func (p *Pagination) Clamp() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset returns the SQL offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// RequestContext carries authenticated user info through handlers.
type RequestContext struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (rc RequestContext) IsAdmin() bool { return rc.Role == RoleAdmin }
func (rc RequestContext) IsStaff() bool { return rc.Role == RoleAdmin || rc.Role == RoleAgent }
