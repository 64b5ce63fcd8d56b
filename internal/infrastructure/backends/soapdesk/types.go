package soapdesk

import "encoding/xml"

// Wire-format structs for the legacy desk's SOAP dialect. These never leave
// this package; adapter.go maps them into the unified domain model.

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	NSSoap  string      `xml:"xmlns:soap,attr"`
	Header  *soapHeader `xml:"soap:Header,omitempty"`
	Body    requestBody `xml:"soap:Body"`
}

type soapHeader struct {
	Session *sessionHeader `xml:"Session,omitempty"`
}

type sessionHeader struct {
	NS    string `xml:"xmlns,attr"`
	Token string `xml:"token"`
}

type requestBody struct {
	Payload any
}

func (b requestBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Payload); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type soapFault struct {
	Code   string `xml:"Body>Fault>faultcode"`
	String string `xml:"Body>Fault>faultstring"`
}

// --- operation payloads ---

type loginRequest struct {
	XMLName  xml.Name `xml:"tns:Login"`
	NS       string   `xml:"xmlns:tns,attr"`
	Login    string   `xml:"login"`
	Password string   `xml:"password"`
}

type loginResponse struct {
	Token string `xml:"Body>LoginResponse>token"`
}

type getRoutesRequest struct {
	XMLName xml.Name `xml:"tns:GetRoutes"`
	NS      string   `xml:"xmlns:tns,attr"`
	Login   string   `xml:"login"`
}

type getRoutesResponse struct {
	Routes *routeList `xml:"Body>GetRoutesResponse>routes"`
}

type routeList struct {
	Items []wireRoute `xml:"route"`
}

type wireRoute struct {
	Code     string        `xml:"code"`
	Name     string        `xml:"name"`
	Note     string        `xml:"note"`
	Image    string        `xml:"image"`
	Services []wireService `xml:"services>service"`
}

type wireService struct {
	Code  string `xml:"code"`
	Name  string `xml:"name"`
	Note  string `xml:"note"`
	Image string `xml:"image"`
}

type getTasksRequest struct {
	XMLName xml.Name `xml:"tns:GetTasks"`
	NS      string   `xml:"xmlns:tns,attr"`
	Login   string   `xml:"login"`
	State   string   `xml:"state,omitempty"`
}

type getTasksResponse struct {
	Tasks *taskList `xml:"Body>GetTasksResponse>tasks"`
}

type taskList struct {
	Items []wireTask `xml:"task"`
}

type wireTask struct {
	ID           string        `xml:"id"`
	Number       string        `xml:"number"`
	Name         string        `xml:"name"`
	Content      string        `xml:"content"`
	State        string        `xml:"state"`
	CreationDate string        `xml:"creationDate"`
	Deadline     string        `xml:"deadline"`
	CloseDate    string        `xml:"closeDate"`
	Author       wirePerson    `xml:"author"`
	Executor     wirePerson    `xml:"executor"`
	Route        *wireRoute    `xml:"route"`
	Service      *wireService  `xml:"service"`
	Files        []wireFile    `xml:"files>file"`
	Comments     []wireComment `xml:"comments>comment"`
}

// wirePerson carries the legacy compound orgUnit field, "department, division"
// joined with a comma.
type wirePerson struct {
	Login    string `xml:"login"`
	FullName string `xml:"fullName"`
	OrgUnit  string `xml:"orgUnit"`
	Email    string `xml:"email"`
	Phone    string `xml:"phone"`
}

type wireFile struct {
	ID      string `xml:"id"`
	Name    string `xml:"name"`
	Ext     string `xml:"ext"`
	Mime    string `xml:"mime"`
	Content string `xml:"content"` // base64, only on GetFile
}

type wireComment struct {
	Code       string     `xml:"code"`
	ParentCode string     `xml:"parentCode"`
	Date       string     `xml:"date"`
	Author     string     `xml:"author"`
	Content    string     `xml:"content"`
	Files      []wireFile `xml:"files>file"`
}

type getTaskRequest struct {
	XMLName xml.Name `xml:"tns:GetTask"`
	NS      string   `xml:"xmlns:tns,attr"`
	Login   string   `xml:"login"`
	ID      string   `xml:"id"`
}

type getTaskResponse struct {
	Task *wireTask `xml:"Body>GetTaskResponse>task"`
}

type getFileRequest struct {
	XMLName xml.Name `xml:"tns:GetFile"`
	NS      string   `xml:"xmlns:tns,attr"`
	Login   string   `xml:"login"`
	ID      string   `xml:"id"`
	Name    string   `xml:"name,omitempty"`
}

type getFileResponse struct {
	File *wireFile `xml:"Body>GetFileResponse>file"`
}

type createTaskRequest struct {
	XMLName     xml.Name         `xml:"tns:CreateTask"`
	NS          string           `xml:"xmlns:tns,attr"`
	Login       string           `xml:"login"`
	RouteCode   string           `xml:"routeCode"`
	ServiceCode string           `xml:"serviceCode"`
	Name        string           `xml:"name"`
	Content     string           `xml:"content"`
	Files       []wireAttachment `xml:"files>file"`
}

type wireAttachment struct {
	Name    string `xml:"name"`
	Content string `xml:"content"` // base64
}

type createTaskResponse struct {
	ID     string `xml:"Body>CreateTaskResponse>id"`
	Number string `xml:"Body>CreateTaskResponse>number"`
}

type updateTaskRequest struct {
	XMLName xml.Name         `xml:"tns:UpdateTask"`
	NS      string           `xml:"xmlns:tns,attr"`
	Login   string           `xml:"login"`
	ID      string           `xml:"id"`
	Name    string           `xml:"name,omitempty"`
	Content string           `xml:"content,omitempty"`
	State   string           `xml:"state,omitempty"`
	Files   []wireAttachment `xml:"files>file"`
}

type updateTaskResponse struct {
	Task *wireTask `xml:"Body>UpdateTaskResponse>task"`
}
