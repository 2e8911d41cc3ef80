package ft232h

import (
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ads1256/pkg/ads1256"
)

func cpin(p ads1256.Pin) ft232h.CPin {
	return ft232h.CPin(p)
}

// SetDirection configures a C bus pin. Outputs start high, which leaves
// chip-select deasserted and the chip powered and out of reset.
func (ft *FT232H) SetDirection(pin ads1256.Pin, dir ads1256.Direction) error {
	p := cpin(pin)
	ft.log.Trace().Str("pin", p.String()).Int("pos", int(p.Pos())).Msg("configuring pin")
	if dir == ads1256.Input {
		return ft.GPIO.ConfigPin(p, ft232h.Input, true)
	}
	return ft.GPIO.ConfigPin(p, ft232h.Output, true)
}

func (ft *FT232H) Write(pin ads1256.Pin, level ads1256.Level) error {
	return ft.GPIO.Set(cpin(pin), bool(level))
}

func (ft *FT232H) Read(pin ads1256.Pin) (ads1256.Level, error) {
	hl, err := ft.GPIO.Get(cpin(pin))
	if err != nil {
		return ads1256.Low, err
	}
	return ads1256.Level(hl), nil
}
