// Package markdown renders markdown into the block sequence the sectioner
// consumes, and loads documents with front matter from a filesystem for
// batch conversion.
//
// GoldmarkRenderer owns the goldmark engine: heading ids and anchor-links,
// external link attributes, image wrapping, inline attribute lists after
// images, and highlighted fenced code. SectionedParser groups its output
// into <section> elements. Service loads documents through Loader and
// converts them, optionally many at once.
package markdown
