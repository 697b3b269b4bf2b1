// Package features defines the per-clip feature record the classifier works
// on and the helpers that derive one from a frame matrix.
//
// A Record is a Gaussian summary of a clip's short-time cepstral frames: the
// column-wise mean, the unbiased covariance across time, an optional auxiliary
// vector produced by an external sequential model, and the genre label. Frame
// matrices themselves come from an external extractor; ReadFramesCSV accepts
// the frame×coefficient CSV such tools export.
package features
