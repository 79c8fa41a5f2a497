// Package report renders the country summary image and keeps the latest one
// in a Sink. Rendering runs off the refresh path, driven by snapshot events.
package report
