// Package imageurl turns an image prompt into a Pollinations image URL.
// The transform is pure: the same prompt always yields the same URL.
package imageurl

import "net/url"

const baseURL = "https://image.pollinations.ai/prompt/"

// styleSuffix pins every image to a consistent anime look regardless of the
// model's own prompt, and suppresses text artifacts in the output.
const styleSuffix = ", 2D anime cel-shaded, clean line art, expressive faces, " +
	"cinematic lighting, dynamic motion lines, consistent character design, " +
	"no text, no watermark, no logo, not photorealistic, not 3D, not western comic"

// ForPrompt returns the image URL for the given prompt text.
// The style suffix is always appended before percent-encoding.
func ForPrompt(prompt string) string {
	return baseURL + url.PathEscape(prompt+styleSuffix)
}
