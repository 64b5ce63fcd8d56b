package restdesk

// Wire-format structs for the REST ticket desks. Private to this package;
// adapter.go maps them into the unified domain model.

type authRequest struct {
	Login  string `json:"login"`
	Secret string `json:"secret"`
}

type authResponse struct {
	Token string `json:"token"`
}

type listRoutesRequest struct {
	Login string `json:"login"`
}

type listRoutesResponse struct {
	Routes []wireRoute `json:"routes"`
}

type wireRoute struct {
	Code        string        `json:"code"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Services    []wireService `json:"services"`
}

type wireService struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type listTicketsRequest struct {
	Login  string `json:"login"`
	Status string `json:"status,omitempty"`
}

type listTicketsResponse struct {
	Tickets []wireTicket `json:"tickets"`
}

type wireTicket struct {
	ID          string           `json:"id"`
	Number      string           `json:"number"`
	Title       string           `json:"title"`
	Description string           `json:"description"` // HTML
	Status      string           `json:"status"`
	CreatedAt   string           `json:"created_at"`
	DueAt       string           `json:"due_at"`
	ClosedAt    string           `json:"closed_at"`
	Author      wireUser         `json:"author"`
	Assignee    wireUser         `json:"assignee"`
	Route       *wireRoute       `json:"route"`
	Service     *wireService     `json:"service"`
	Attachments []wireAttachment `json:"attachments"`
	Comments    []wireComment    `json:"comments"`
}

// wireUser carries the desk's compound unit field, "department, division"
// joined with a comma.
type wireUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type wireAttachment struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Ext     string `json:"ext"`
	Mime    string `json:"mime"`
	Content string `json:"content,omitempty"` // base64, only on file fetch and upload
}

type wireComment struct {
	Code       string           `json:"code"`
	ParentCode string           `json:"parent_code"`
	Date       string           `json:"date"`
	Author     string           `json:"author"`
	Body       string           `json:"body"` // HTML
	Files      []wireAttachment `json:"files"`
}

type getTicketRequest struct {
	Login string `json:"login"`
	ID    string `json:"id"`
}

type getTicketResponse struct {
	Ticket *wireTicket `json:"ticket"`
}

type getFileRequest struct {
	Login string `json:"login"`
	ID    string `json:"id"`
}

type getFileResponse struct {
	File *wireAttachment `json:"file"`
}

type createTicketRequest struct {
	Login       string           `json:"login"`
	RouteCode   string           `json:"route_code"`
	ServiceCode string           `json:"service_code"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Attachments []wireAttachment `json:"attachments,omitempty"`
}

type createTicketResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
