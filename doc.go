// Package guestpix is the client core of the guestpix wedding-photo upload
// service: it manages the selected photo, derives styled "optimized" variants
// through the service API, and caches optimized results locally so a style is
// generated at most once per photo.
//
// Optimized variants are addressed by a composite key of file name and style
// index, stored in a SQLite-backed structured store with a flat file fallback.
// The view state machine guarantees the displayed variant always belongs to
// the current selection: a late result for a replaced photo is discarded.
//
// Basic usage:
//
//	sess, _ := guestpix.Open("http://localhost:8080")
//	defer sess.Close()
//
//	data, _ := os.ReadFile("photo.png")
//	if err := sess.Select("photo.png", "image/png", data); err != nil {
//		log.Fatal(err)
//	}
//
//	// Derive the styled variant (cache hit or one API call)
//	variant, err := sess.EnableOptimized(ctx)
//	if err != nil {
//		// toggle reverted, original still on display
//	}
//
//	// Switch back and forth without re-fetching
//	sess.DisableOptimized()
//	variant, _ = sess.EnableOptimized(ctx)
//
//	// Upload whichever variant is active
//	res, _ := sess.Submit(ctx)
//	fmt.Println(res.FileLink)
package guestpix
