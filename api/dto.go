package api

type SpocResponse struct {
	SpocID         int    `json:"spoc_id"`
	Name           string `json:"name"`
	Expertise      string `json:"expertise"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

type SlotResponse struct {
	SlotID    int    `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SpocAvailabilityResponse struct {
	SpocID         int            `json:"spoc_id"`
	Name           string         `json:"name"`
	Expertise      string         `json:"expertise"`
	Specialization string         `json:"specialization"`
	Email          string         `json:"email"`
	AvailableSlots []SlotResponse `json:"available_slots"`
}

type ClientCreateRequest struct {
	CompanyName      string  `json:"company_name"`
	ContactName      *string `json:"contact_name,omitempty"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
	Industry         *string `json:"industry,omitempty"`
	BudgetRange      *string `json:"budget_range,omitempty"`
	DecisionTimeline *string `json:"decision_timeline,omitempty"`
	SolutionType     *string `json:"solution_type,omitempty"`
}

type ClientResponse struct {
	ClientID     string  `json:"client_id"`
	CompanyName  string  `json:"company_name"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	CreatedAt    string  `json:"created_at"`
}

type BookingRequest struct {
	ClientID    string `json:"client_id"`
	SpocID      int    `json:"spoc_id"`
	SlotID      int    `json:"slot_id"`
	MeetingType string `json:"meeting_type"`
}

type BookingResponse struct {
	BookingID     string `json:"booking_id"`
	ClientID      string `json:"client_id"`
	SpocID        int    `json:"spoc_id"`
	SlotID        int    `json:"slot_id"`
	MeetingType   string `json:"meeting_type"`
	BookingStatus string `json:"booking_status"`
	MeetingLink   string `json:"meeting_link"`
	CreatedAt     string `json:"created_at"`
}

type BookingConfirmation struct {
	BookingID   string `json:"booking_id"`
	Message     string `json:"message"`
	SpocName    string `json:"spoc_name"`
	MeetingLink string `json:"meeting_link"`
	StartTime   string `json:"start_time"`
}

type CancellationResponse struct {
	Message   string `json:"message"`
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}
