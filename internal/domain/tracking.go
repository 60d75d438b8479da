package domain

// StepState marks a tracking step relative to the order's current status.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// TrackingStep is one line of the public tracking timeline.
type TrackingStep struct {
	Name  string    `json:"name"`
	State StepState `json:"state"`
}

// TrackingView is the public projection of an order.
type TrackingView struct {
	OrderID        string         `json:"order_id"`
	TrackingNumber string         `json:"tracking_number"`
	DocumentType   string         `json:"document_type"`
	Status         OrderStatus    `json:"status"`
	StatusLabel    string         `json:"status_label"`
	AssignedTo     string         `json:"assigned_to"`
	AssignedPhone  string         `json:"assigned_phone"`
	Cancelled      bool           `json:"cancelled"`
	Steps          []TrackingStep `json:"steps"`
}

// Tracking step names, in order.
const (
	StepNameSubmitted   = "Order Submitted"
	StepNameUnderReview = "Under Review"
	StepNameProcessing  = "Processing"
	StepNameReady       = "Ready for Pickup/Delivery"
	StepNameInDelivery  = "In Delivery"
	StepNameDelivered   = "Delivered"
)

var trackingSteps = []struct {
	name string
	rank int
}{
	{StepNameUnderReview, OrderStatusPending.Rank()},
	{StepNameProcessing, OrderStatusProcessing.Rank()},
	{StepNameReady, OrderStatusReady.Rank()},
	{StepNameInDelivery, OrderStatusInDelivery.Rank()},
	{StepNameDelivered, OrderStatusCompleted.Rank()},
}

// BuildTrackingView derives the step timeline from the order's status rank.
func BuildTrackingView(o *Order) TrackingView {
	current := o.Status.Rank()
	steps := make([]TrackingStep, 0, len(trackingSteps)+1)
	steps = append(steps, TrackingStep{Name: StepNameSubmitted, State: StepCompleted})
	for _, step := range trackingSteps {
		state := StepPending
		switch {
		case current == step.rank:
			state = StepCurrent
		case current > step.rank:
			state = StepCompleted
		}
		steps = append(steps, TrackingStep{Name: step.name, State: state})
	}

	assignedTo, assignedPhone := o.AssignedPersonName, o.AssignedPersonPhone
	if assignedTo == "" {
		assignedTo = Unassigned
	}
	if assignedPhone == "" {
		assignedPhone = Unassigned
	}

	return TrackingView{
		OrderID:        o.ID,
		TrackingNumber: o.TrackingNumber,
		DocumentType:   o.DocumentType,
		Status:         o.Status,
		StatusLabel:    o.StatusLabel(),
		AssignedTo:     assignedTo,
		AssignedPhone:  assignedPhone,
		Cancelled:      o.Status == OrderStatusCancelled,
		Steps:          steps,
	}
}
