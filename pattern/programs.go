package pattern

// PatternOne is played while only switch0 is pressed.
var PatternOne = Program{Name: "patternOne", Steps: concat(
	[]Step{
		{ClockwiseCircle, 3},
		{CounterClockwiseCircle, 3},
		{TwoHalfCircles, 3},
	},
	circleRamp(),
	[]Step{
		{OppositesOnCircleCCW, 1},
		{OppositesOnCircleCW, 1},
		{TriangleTurnCW, 1},
		{SquareTurnCW, 1},
		{QuickFlashOpposites, 1},
		{SquareTurnCW, 1},
		{QuickFlashOpposites, 1},
	},
	startingRamp(),
)}

// PatternTwo is played while only switch1 is pressed.
var PatternTwo = Program{Name: "patternTwo", Steps: []Step{
	{DelayFlash, 1},
	{QuickFlashOpposites, 3},
	{OppositesOnCircleCW, 2},
	{OppositesOnCircleCCW, 2},
	{CircleOn(150), 1},
	{SquareTurnCW, 1},
	{TurnOnLEDs, 1},
	{TriangleTurnCW, 1},
	{TurnOnLEDs, 1},

	{CircleOff(150), 1},
	{ClockwiseCircle, 1},
	{TwoHalfCircles, 1},
	{CircleOff(150), 1},
	{ClockwiseCircle, 1},
	{TwoHalfCircles, 1},

	{CircleFill, 1},
	{CircleEmpty, 1},
	{CircleFill, 1},
	{CircleEmpty, 1},
	{CircleFill, 1},
	{CircleEmpty, 1},

	{ClockwiseCircle, 1},
	{CounterClockwiseCircle, 1},
}}

// circleRamp fills and empties the circle at 200, 150, 100 and 50ms per step.
func circleRamp() []Step {
	var steps []Step
	for ms := uint16(200); ms > 0; ms -= 50 {
		steps = append(steps, Step{CircleOn(ms), 1}, Step{CircleOff(ms), 1})
	}
	return steps
}

// startingRamp flashes every LED with on and off times growing from 50ms to
// 300ms in 25ms steps.
func startingRamp() []Step {
	var steps []Step
	for ms := uint16(50); ms <= 300; ms += 25 {
		steps = append(steps, Step{StartingPattern(ms), 1})
	}
	return steps
}

func concat(parts ...[]Step) []Step {
	var steps []Step
	for _, p := range parts {
		steps = append(steps, p...)
	}
	return steps
}
