// Package pkg provides the core libraries for tastopo map generation.
//
// # Overview
//
// Tastopo turns a location into a print-ready topographic map sheet built
// from Tasmanian government (ListMap) imagery. The pkg directory is
// organized along the generation pipeline:
//
//  1. [geo] - Locations: geo URIs, place coordinates, projection
//  2. [paper] - Sheet geometry: ISO 216 sizes, margins, viewports
//  3. [integrations] - External API clients (ListMap, NOAA geomagnetism)
//  4. [mapimage] - Imagery: tiled export requests and stitching
//  5. [layout] - Sheet composition: grid, title block, footer, SVG
//  6. [render] - Export to SVG and PDF
//  7. [pipeline] - Orchestration (locate → fetch → compose → export)
//
// # Architecture
//
// The typical data flow:
//
//	Place name / geo URI
//	         ↓
//	    [geo] package (resolve and project the centre)
//	         ↓
//	    [mapimage] package (fetch and stitch imagery tiles)
//	         ↓
//	    [layout] package (compose the sheet as SVG)
//	         ↓
//	    [render] package (SVG/PDF output)
//
// Supporting packages: [errors] for coded errors, [httputil] for response
// caching, [buildinfo] for version stamping.
package pkg
