// Package archive writes crawl results to the output directory:
//
//	<out>/html/<id>.html  content region of each article, re-serialized
//	<out>/txt/<id>.txt    plain text of the same region
//	<out>/<label>LIB.csv  the article library
//
// Directories are created on first use.
package archive
