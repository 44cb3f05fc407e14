package schedule

// Service identifies a collection stream in the city feed.
type Service string

const (
	ServiceGarbage   Service = "garbage"
	ServiceRecycling Service = "recycling"
)

// ServiceOrder fixes the presentation order wherever both services appear in
// one message: garbage before recycling.
var ServiceOrder = []Service{ServiceGarbage, ServiceRecycling}

// Pickup is the per-service record the city feed returns for one address.
// AltDate, when present, is the holiday-shifted date actually in force.
type Pickup struct {
	Date          string `json:"date"`
	AltDate       string `json:"alt_date"`
	IsDetermined  bool   `json:"is_determined"`
	IsGuaranteed  bool   `json:"is_guaranteed"`
	IsWinter      bool   `json:"is_winter"`
	Route         string `json:"route"`
	AccountNumber string `json:"apt_garbage_acct_num"`
	Year          int    `json:"year"`
}

// Payload is the city feed response for one address. Treated as read-only and
// re-fetched on every resolution; there is no caching layer.
type Payload struct {
	Success   bool    `json:"success"`
	Garbage   *Pickup `json:"garbage,omitempty"`
	Recycling *Pickup `json:"recycling,omitempty"`
}

// Pickup returns the record for a service, or nil when the feed omitted it.
func (p *Payload) Pickup(svc Service) *Pickup {
	switch svc {
	case ServiceGarbage:
		return p.Garbage
	case ServiceRecycling:
		return p.Recycling
	default:
		return nil
	}
}

// Determined reports the feed's own assertion that it confidently identified
// a collection day for at least one service at this address.
func (p *Payload) Determined() bool {
	if !p.Success {
		return false
	}
	garbage := p.Garbage != nil && p.Garbage.IsDetermined
	recycling := p.Recycling != nil && p.Recycling.IsDetermined
	return garbage || recycling
}
