package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookPatchClauses(t *testing.T) {
	intp := func(n int) *int { return &n }
	strp := func(s string) *string { return &s }

	t.Run("empty patch produces no clauses", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{})
		assert.Empty(t, sets)
		assert.Empty(t, args)
	})

	t.Run("plain column", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{Title: strp("Dune Messiah")})
		require.Equal(t, []string{"title = $1"}, sets)
		require.Equal(t, []any{"Dune Messiah"}, args)
	})

	t.Run("available copies is assigned exactly once", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{AvailableCopies: intp(5)})
		joined := strings.Join(sets, ", ")
		assert.Equal(t, 1, strings.Count(joined, "available_copies ="))
		require.Equal(t, []string{"available_copies = LEAST(total_copies, GREATEST(0, $1))"}, sets)
		require.Equal(t, []any{5}, args)
	})

	t.Run("shrinking the total clamps against the new total", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{TotalCopies: intp(1)})
		require.Equal(t, []string{
			"total_copies = $1",
			"available_copies = LEAST($1, GREATEST(0, available_copies))",
		}, sets)
		require.Equal(t, []any{1}, args)
	})

	t.Run("both counters patched together", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{TotalCopies: intp(4), AvailableCopies: intp(9)})
		joined := strings.Join(sets, ", ")
		assert.Equal(t, 1, strings.Count(joined, "available_copies ="))
		require.Equal(t, []string{
			"total_copies = $1",
			"available_copies = LEAST($1, GREATEST(0, $2))",
		}, sets)
		require.Equal(t, []any{4, 9}, args)
	})

	t.Run("full patch keeps placeholders in argument order", func(t *testing.T) {
		sets, args := bookPatchClauses(BookPatch{
			Title:           strp("1984"),
			Author:          strp("George Orwell"),
			Genre:           strp("Science Fiction"),
			Description:     strp("A dystopia"),
			CoverImage:      strp("https://example.com/1984.jpg"),
			ISBN:            strp("978-0-452-28423-4"),
			PublishedYear:   intp(1949),
			TotalCopies:     intp(3),
			AvailableCopies: intp(2),
		})
		require.Len(t, args, 9)
		require.Equal(t, "total_copies = $8", sets[len(sets)-2])
		require.Equal(t, "available_copies = LEAST($8, GREATEST(0, $9))", sets[len(sets)-1])
	})
}
