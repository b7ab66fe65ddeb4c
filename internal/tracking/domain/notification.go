package domain

// Notification is a composed owner mail, ready for a transport.
type Notification struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	To      string `json:"to"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}
