// Package searchd provides a Go client for the searchd catalog search
// service.
//
//	client, _ := searchd.New("http://localhost:8080")
//	page, _ := client.Search(ctx, "wireless earbuds",
//	    searchd.WithMinRating(4),
//	    searchd.WithPriceRange(500, 3000),
//	)
//	suggestions, _ := client.Suggest(ctx, "wirel")
//
// Queries in Devanagari script are routed to Hindi fields by the service;
// the client passes text through unchanged.
package searchd
