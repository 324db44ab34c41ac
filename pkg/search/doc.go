// Package search filters the dashboard models by a free-text query.
//
// # Overview
//
// A query is a literal, case-insensitive substring. It is matched against
// the searchable attributes of tiles (id, name, status text, description),
// the data attributes of table rows and the keys and values of a site's
// additional details. Regex metacharacters in the query carry no meaning.
//
// # Matching
//
// Case folding uses golang.org/x/text/cases upper-casing with an
// undetermined language tag, so "straße" and "STRASSE" compare equal. An
// empty query matches everything and clears search mode.
//
// # Highlighting
//
// Matches are wrapped in <mark> tags. Marks left by a previous query are
// always stripped first, so filtering is idempotent. HighlightHTML only
// touches text between tags; attribute values and tag names are never
// rewritten. Table cells with nested markup are matched but left as they
// are.
//
// # Usage
//
// Filtering the tile view:
//
//	q := search.NewQuery("web")
//	res := search.FilterTiles(model, q)
//	fmt.Println(res.Caption) // Showing: <b>3</b> of <b>12</b>
//
// Seeding the filter from a page URL and dropping the parameter:
//
//	q, stripped := search.SeedFromURL(r.URL)
//	http.Redirect(w, r, stripped.RequestURI(), http.StatusSeeOther)
//
// # Integration
//
// This package integrates with:
//
//   - pkg/viewmodel: the tile, row and cell types it hides and highlights
//   - pkg/sites: the detail categories shown in the details dialog
//   - pkg/dashboard: re-runs the active filter after every rebuild
package search
