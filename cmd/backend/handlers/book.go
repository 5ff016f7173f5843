package handlers

import (
	"net/http"

	"github.com/hairizuan-noorazman/bible-memo/book"
)

// BooksHandler lists the canonical book index.
func BooksHandler(w http.ResponseWriter, r *http.Request) {
	books := book.All()
	respondJSON(w, http.StatusOK, ListResponse{Items: books, Total: len(books)})
}
