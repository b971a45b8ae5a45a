package ticketmaster

import "sort"

// genreIDs maps the genre names shown in the client's filter picker to
// Ticketmaster Discovery genre ids. The table is fixed; names outside it
// are silently dropped when building a query and rejected when saving
// preferences.
var genreIDs = map[string]string{
	"Alternative":      "KnvZfZ7vAvv",
	"Blues":            "KnvZfZ7vAvd",
	"Classical":        "KnvZfZ7vAeJ",
	"Country":          "KnvZfZ7vAv6",
	"Dance/Electronic": "KnvZfZ7vAvF",
	"Folk":             "KnvZfZ7vAva",
	"Hip-Hop/Rap":      "KnvZfZ7vAvJ",
	"Jazz":             "KnvZfZ7vAvE",
	"Latin":            "KnvZfZ7vAFe",
	"Metal":            "KnvZfZ7vAvt",
	"New Age":          "KnvZfZ7vAee",
	"Pop":              "KnvZfZ7vAev",
	"R&B":              "KnvZfZ7vA_e",
	"Reggae":           "KnvZfZ7vAed",
	"Religious":        "KnvZfZ7vAAd",
	"Rock":             "KnvZfZ7vAeA",
	"World":            "KnvZfZ7vAFr",
}

// GenreIDs resolves genre names to Discovery genre ids, keeping input
// order and skipping unknown names.
func GenreIDs(names []string) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := genreIDs[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// KnownGenre reports whether name is in the supported genre table.
func KnownGenre(name string) bool {
	_, ok := genreIDs[name]
	return ok
}

// GenreNames returns the supported genre names sorted alphabetically.
func GenreNames() []string {
	names := make([]string, 0, len(genreIDs))
	for name := range genreIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
