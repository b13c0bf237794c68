// Package viz renders worlds in the terminal.
//
// A [Canvas] is a braille dot grid implementing dynamo.Surface, so a world
// draws into it exactly as it would into any other surface. [Model] is the
// Bubble Tea program around it:
//
//	Space - Pause/Resume
//	R     - Restart the current scene
//	N     - Next scene
//	B     - Spawn a black hole at the configured point
//	O     - Toggle collider outlines
//	S/L   - Save to / load from the latest save slot
//	G     - Start or stop a GIF capture
//	?     - Help overlay
package viz
