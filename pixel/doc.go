// Package pixel implements the RGB565 color model and framebuffer used by the
// SSD1351 driver.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so buffers compose with the standard library
// imaging packages and are unit-tested without hardware.
package pixel
