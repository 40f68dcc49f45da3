package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
)

// cliListener listens for keypresses and drives the dashboard.
func cliListener(d *dashboard, quit func()) {
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			fmt.Println(err)
			quit()
			return
		}
		switch {
		case r == 'q' || k == keyboard.KeyCtrlC || k == keyboard.KeyEsc:
			quit()
			return
		case k == keyboard.KeyTab:
			d.nextCard()
		case r >= '1' && r <= '9':
			d.toggleRow(int(r - '0'))
		case r == 'd':
			fmt.Println(d.dump())
		}
	}
}
