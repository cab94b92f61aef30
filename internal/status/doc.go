// Package status defines host status classification and the shared status
// cache. Classification is a pure function of a probe outcome and the host's
// registry metadata; the cache holds the latest classified entry per host
// behind atomic-replace semantics.
package status
