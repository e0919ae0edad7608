package pattern

import "libdb.so/flasher/board"

const (
	led1 = board.LED1
	led2 = board.LED2
	led3 = board.LED3
	led4 = board.LED4
	led5 = board.LED5
	led6 = board.LED6
	led7 = board.LED7
	led8 = board.LED8

	allOnA = board.AllOnA
	allOnC = board.AllOnC
)

// TurnOnLEDs lights every LED without holding.
var TurnOnLEDs = Sequence{"turnOnLEDs", []Frame{
	{A: allOnA, C: allOnC},
}}

// TurnOffLEDs clears both ports without holding.
var TurnOffLEDs = Sequence{"turnOffLEDs", []Frame{
	{A: 0, C: 0},
}}

// ClockwiseCircle walks a single LED around the ring clockwise.
var ClockwiseCircle = Sequence{"clockwiseCircle", []Frame{
	{C: led1, Hold: 75, Writes: WriteC},
	{A: led2, C: 0, Hold: 75},
	{A: 0, C: led3, Hold: 75, Writes: WriteAC},
	{C: led4, Hold: 75, Writes: WriteC},
	{A: led5, C: 0, Hold: 75},
	{A: led6, Hold: 75, Writes: WriteA},
	{A: 0, C: led7, Hold: 75, Writes: WriteAC},
	{C: led8, Hold: 75, Writes: WriteC},
	{C: led1, Hold: 75, Writes: WriteC},
}}

// CounterClockwiseCircle walks a single LED around the ring the other way.
var CounterClockwiseCircle = Sequence{"counterClockwiseCircle", []Frame{
	{C: led8, Hold: 75, Writes: WriteC},
	{C: led7, Hold: 75, Writes: WriteC},
	{A: led6, C: 0, Hold: 75},
	{A: led5, Hold: 75, Writes: WriteA},
	{A: 0, C: led4, Hold: 75, Writes: WriteAC},
	{C: led3, Hold: 75, Writes: WriteC},
	{A: led2, C: 0, Hold: 75},
	{A: 0, C: led1, Hold: 75, Writes: WriteAC},
}}

// TwoHalfCircles runs two LEDs down both halves of the ring and back.
var TwoHalfCircles = Sequence{"twoHalfCircles", []Frame{
	{C: led1, Hold: 75, Writes: WriteC},
	{A: led2, C: led8, Hold: 100},
	{A: 0, C: led3 | led7, Hold: 100, Writes: WriteAC},
	{A: led6, C: led4, Hold: 100, Writes: WriteAC},
	{A: led5, C: 0, Hold: 100},
	{A: led6, C: led4, Hold: 100, Writes: WriteAC},
	{A: 0, C: led3 | led7, Hold: 100, Writes: WriteAC},
	{A: led2, C: led8, Hold: 100},
	{A: 0, C: led1, Hold: 100, Writes: WriteAC},
	{A: 0, C: 0, Hold: 100},
}}

// CircleOn fills the ring from LED1 down both halves, holding each step for
// ms milliseconds.
func CircleOn(ms uint16) Sequence {
	return Sequence{"circleOn", []Frame{
		{C: led1, Hold: ms, Writes: WriteC},
		{A: led2, C: led1 | led8, Hold: ms},
		{A: led2, C: led1 | led3 | led7 | led8, Hold: ms},
		{A: led2 | led6, C: allOnC, Hold: ms},
		{A: allOnA, C: allOnC, Hold: ms},
	}}
}

// CircleOff empties a full ring back towards LED1 and ends with every LED
// off.
func CircleOff(ms uint16) Sequence {
	return Sequence{"circleOff", []Frame{
		{A: led2 | led6, C: allOnC, Hold: ms},
		{A: led2, C: led1 | led3 | led7 | led8, Hold: ms},
		{A: led2, C: led1 | led8, Hold: ms},
		{A: 0, C: led1, Hold: ms, Writes: WriteAC},
		{A: 0, C: 0, Hold: ms},
	}}
}

// OppositesOnCircleCCW rotates a pair of opposite LEDs counter-clockwise.
var OppositesOnCircleCCW = Sequence{"oppositesOnCircleCCW", []Frame{
	{A: led5, C: led1, Hold: 150},
	{A: 0, C: led4 | led8, Hold: 150},
	{C: led3 | led7, Hold: 150, Writes: WriteC},
	{A: led2 | led6, C: 0, Hold: 150},
	{A: led5, C: led1, Hold: 150},
	{A: 0, C: 0, Hold: 100},
}}

// OppositesOnCircleCW rotates a pair of opposite LEDs clockwise.
var OppositesOnCircleCW = Sequence{"oppositesOnCircleCW", []Frame{
	{A: led5, C: led1, Hold: 150},
	{A: led2 | led6, C: 0, Hold: 150},
	{A: 0, C: led3 | led7, Hold: 150},
	{C: led4 | led8, Hold: 150, Writes: WriteC},
	{A: led5, C: led1, Hold: 150},
	{A: 0, C: 0, Hold: 100},
}}

// TriangleTurnCW rotates a three-LED triangle clockwise.
var TriangleTurnCW = Sequence{"triangleTurnCW", []Frame{
	{A: led6, C: led1 | led4, Hold: 300},
	{A: led2 | led5, C: led7, Hold: 300},
	{A: led6, C: led3 | led8, Hold: 300},
	{A: 0, C: led4 | led7 | led1, Hold: 300},
	{A: led5 | led2, C: led8, Hold: 300},
	{A: led6, C: led1 | led3, Hold: 300},
	{A: led2, C: led7 | led4, Hold: 300},
	{A: led5, C: led8 | led3, Hold: 300},
	{A: 0, C: 0, Hold: 100},
}}

var (
	squareEven = Frame{A: led2 | led6, C: led8 | led4, Hold: 200}
	squareOdd  = Frame{A: led5, C: led1 | led3 | led7, Hold: 200}
)

// SquareTurnCW alternates between the two four-LED squares.
var SquareTurnCW = Sequence{"squareTurnCW", []Frame{
	squareEven, squareOdd,
	squareEven, squareOdd,
	squareEven, squareOdd,
	squareEven, squareOdd,
	{A: 0, C: 0, Hold: 100},
}}

// QuickFlashOpposites flashes each opposite pair three times. The third pair
// only writes PORTC, which the dark frame before it has cleared.
var QuickFlashOpposites = Sequence{"quickFlashOpposites", flashes(50, 3, []Frame{
	{A: led5, C: led1},
	{A: 0, C: led3 | led7},
	{C: led4 | led8, Writes: WriteC},
	{A: led2 | led6, C: 0},
})}

// DelayFlash flashes every LED for 500ms, with the dark gap shrinking from
// 300ms to 50ms.
var DelayFlash = func() Sequence {
	var frames []Frame
	for off := uint16(300); off >= 50; off -= 50 {
		frames = append(frames,
			Frame{A: allOnA, C: allOnC, Hold: 500},
			Frame{A: 0, C: 0, Hold: off},
		)
	}
	return Sequence{"delayFlash", frames}
}()

// CircleFill lights the ring one LED at a time clockwise.
var CircleFill = Sequence{"circleFill", []Frame{
	{C: led1, Hold: 100, Writes: WriteC},
	{A: led2, C: led1, Hold: 100},
	{A: led2, C: led1 | led3, Hold: 100},
	{A: led2, C: led1 | led3 | led4, Hold: 100},
	{A: led2 | led5, C: led1 | led3 | led4, Hold: 100},
	{A: led2 | led5 | led6, C: led1 | led3 | led4, Hold: 100},
	{A: allOnA, C: led1 | led3 | led4 | led7, Hold: 100},
	{A: allOnA, C: allOnC, Hold: 100},
}}

// CircleEmpty clears the ring one LED at a time clockwise.
var CircleEmpty = Sequence{"circleEmpty", []Frame{
	{A: allOnA, C: led3 | led4 | led7 | led8, Hold: 100},
	{A: led5 | led6, C: led3 | led4 | led7 | led8, Hold: 100},
	{A: led5 | led6, C: led4 | led7 | led8, Hold: 100},
	{A: led5 | led6, C: led7 | led8, Hold: 100},
	{A: led6, C: led7 | led8, Hold: 100},
	{A: 0, C: led7 | led8, Hold: 100},
	{C: led8, Hold: 100, Writes: WriteC},
	{C: 0, Hold: 100, Writes: WriteC},
}}

// StartingPattern turns every LED on for ms milliseconds, then off for the
// same time.
func StartingPattern(ms uint16) Sequence {
	return Sequence{"startingPattern", []Frame{
		{A: allOnA, C: allOnC, Hold: ms},
		{A: 0, C: 0, Hold: ms},
	}}
}

// flashes repeats each lit frame n times, each time followed by a dark frame,
// both held for ms milliseconds.
func flashes(ms uint16, n int, lit []Frame) []Frame {
	frames := make([]Frame, 0, 2*n*len(lit))
	for _, f := range lit {
		f.Hold = ms
		for i := 0; i < n; i++ {
			frames = append(frames, f, Frame{A: 0, C: 0, Hold: ms})
		}
	}
	return frames
}
