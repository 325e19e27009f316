// Package export writes renders out of the program: PNG stills, zoom
// animations as GIF, membership outlines as SVG and render records as JSON.
package export
