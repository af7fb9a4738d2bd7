package store

import "pocketarchive/internal/entity"

// seedCatalog is the built-in catalog a fresh store starts from. The local
// backend writes it on first use; cmd/seed loads it into Postgres.
var seedCatalog = []entity.Book{
	{
		ID:              "1",
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Genre:           "Classic",
		Description:     "A classic novel set in the Jazz Age that explores themes of wealth, love, and the American Dream.",
		CoverImage:      "https://images.pexels.com/photos/1148399/pexels-photo-1148399.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0743273565",
		PublishedYear:   1925,
		TotalCopies:     3,
		AvailableCopies: 2,
	},
	{
		ID:              "2",
		Title:           "To Kill a Mockingbird",
		Author:          "Harper Lee",
		Genre:           "Classic",
		Description:     "A gripping tale of racial injustice and childhood innocence in the American South.",
		CoverImage:      "https://images.pexels.com/photos/3358707/pexels-photo-3358707.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0061120084",
		PublishedYear:   1960,
		TotalCopies:     2,
		AvailableCopies: 1,
	},
	{
		ID:              "3",
		Title:           "1984",
		Author:          "George Orwell",
		Genre:           "Science Fiction",
		Description:     "A dystopian social science fiction novel and cautionary tale about totalitarianism.",
		CoverImage:      "https://images.pexels.com/photos/4132938/pexels-photo-4132938.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0451524935",
		PublishedYear:   1949,
		TotalCopies:     3,
		AvailableCopies: 1,
	},
	{
		ID:              "4",
		Title:           "Pride and Prejudice",
		Author:          "Jane Austen",
		Genre:           "Romance",
		Description:     "A romantic novel of manners that satirizes the British landed gentry at the end of the 18th century.",
		CoverImage:      "https://images.pexels.com/photos/1290141/pexels-photo-1290141.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0141439518",
		PublishedYear:   1813,
		TotalCopies:     2,
		AvailableCopies: 2,
	},
	{
		ID:              "5",
		Title:           "The Catcher in the Rye",
		Author:          "J.D. Salinger",
		Genre:           "Classic",
		Description:     "A story about teenage rebellion and alienation narrated by Holden Caulfield.",
		CoverImage:      "https://images.pexels.com/photos/4057663/pexels-photo-4057663.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0316769174",
		PublishedYear:   1951,
		TotalCopies:     1,
		AvailableCopies: 1,
	},
	{
		ID:              "6",
		Title:           "The Hobbit",
		Author:          "J.R.R. Tolkien",
		Genre:           "Fantasy",
		Description:     "A fantasy novel about the quest of home-loving Bilbo Baggins to win a share of treasure guarded by a dragon.",
		CoverImage:      "https://images.pexels.com/photos/3358707/pexels-photo-3358707.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0547928227",
		PublishedYear:   1937,
		TotalCopies:     2,
		AvailableCopies: 2,
	},
	{
		ID:              "7",
		Title:           "Harry Potter and the Philosopher's Stone",
		Author:          "J.K. Rowling",
		Genre:           "Fantasy",
		Description:     "The first novel in the Harry Potter series about a young wizard's first year at Hogwarts.",
		CoverImage:      "https://images.pexels.com/photos/1130980/pexels-photo-1130980.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0439708180",
		PublishedYear:   1997,
		TotalCopies:     3,
		AvailableCopies: 2,
	},
	{
		ID:              "8",
		Title:           "The Da Vinci Code",
		Author:          "Dan Brown",
		Genre:           "Mystery",
		Description:     "A mystery thriller novel that follows symbologist Robert Langdon as he investigates a murder in Paris.",
		CoverImage:      "https://images.pexels.com/photos/4132938/pexels-photo-4132938.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0307474278",
		PublishedYear:   2003,
		TotalCopies:     2,
		AvailableCopies: 2,
	},
	{
		ID:              "9",
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           "Science Fiction",
		Description:     "An epic science fiction novel set in the distant future amidst the intrigue and politics of galactic empire.",
		CoverImage:      "https://images.pexels.com/photos/1130980/pexels-photo-1130980.jpeg?auto=compress&cs=tinysrgb&w=400",
		ISBN:            "978-0441172719",
		PublishedYear:   1965,
		TotalCopies:     2,
		AvailableCopies: 1,
	},
}

// SeedCatalog returns a copy of the built-in catalog.
func SeedCatalog() []entity.Book {
	out := make([]entity.Book, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}
