// Package youtube wraps the catalog API the fetch and publish stages talk to.
//
// Reads (channel resolution, upload listing, video metadata) authenticate
// with an API key; the publish write path injects an oauth2 HTTP client via
// WithHTTPClient. All calls go through the shared pacer so a full run stays
// under the daily quota. "Channel not found" surfaces as a fatal marker
// because it invalidates the whole run, while an inaccessible single video
// is an expected per-item absence.
package youtube
