package board

// LED bit masks. LED2, LED5 and LED6 live on PORTA; the rest live on PORTC.
// LED7 shares its value with LED2 and LED8 with LED6; they are different
// registers.
const (
	LED1 uint8 = 0b000001 // RC0
	LED2 uint8 = 0b000100 // RA2
	LED3 uint8 = 0b010000 // RC4
	LED4 uint8 = 0b001000 // RC3
	LED5 uint8 = 0b100000 // RA5
	LED6 uint8 = 0b000010 // RA1
	LED7 uint8 = 0b000100 // RC2
	LED8 uint8 = 0b000010 // RC1
)

// All LEDs on, per register.
const (
	AllOnA = LED2 | LED5 | LED6
	AllOnC = LED1 | LED3 | LED4 | LED7 | LED8
)

// LED locates one logical LED.
type LED struct {
	Port Port
	Mask uint8
}

// Ring lists the eight LEDs in clockwise order, LED1 first.
var Ring = [8]LED{
	{PortC, LED1},
	{PortA, LED2},
	{PortC, LED3},
	{PortC, LED4},
	{PortA, LED5},
	{PortA, LED6},
	{PortC, LED7},
	{PortC, LED8},
}

// Lit reports which of the eight LEDs are on for the given register values.
func Lit(a, c uint8) [8]bool {
	var lit [8]bool
	for i, led := range Ring {
		v := c
		if led.Port == PortA {
			v = a
		}
		lit[i] = v&led.Mask != 0
	}
	return lit
}
