package entity

// Book is a title in the catalog together with its copy counts.
// AvailableCopies stays within [0, TotalCopies] at all times.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	CoverImage      string `json:"coverImage"`
	ISBN            string `json:"isbn"`
	PublishedYear   int    `json:"publishedYear"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}
