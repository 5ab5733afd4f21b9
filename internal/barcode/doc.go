// Package barcode adapts preprocessed image buffers to a barcode decoder.
//
// A View carries the raw pixel bytes together with a pixel-format hint so
// the backend interprets a single-channel buffer as luminance and a
// three-channel buffer as packed RGB. The default backend is built on
// github.com/makiuchi-d/gozxing.
package barcode
