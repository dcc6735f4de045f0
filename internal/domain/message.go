package domain

// AdminAuthor signs every system notice.
const AdminAuthor = "Admin"

type Message struct {
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
