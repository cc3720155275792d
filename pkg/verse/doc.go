// Package verse turns a finished word sequence into presentable poetry:
// line segmentation and attribution.
package verse
