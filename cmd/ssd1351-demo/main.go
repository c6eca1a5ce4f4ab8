// Command ssd1351-demo exercises an SSD1351 OLED panel: it cycles through a
// couple of demo scenes and advances on a timer or button press.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/image/font"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ssd1351"
	"github.com/BeatGlow/ssd1351/button"
)

type demoScene struct {
	name string
	draw func(d *ssd1351.Display, frame int) error
}

func main() {
	configFlag := flag.String("config", "", "YAML wiring file")
	spiFlag := flag.String("spi", "", "SPI port name (default: first available)")
	resetFlag := flag.String("reset", "", "Reset GPIO pin")
	dcFlag := flag.String("dc", "", "Data/Command GPIO pin")
	buttonFlag := flag.String("button", "", "Scene advance GPIO pin")
	widthFlag := flag.Int("width", 0, "Display width")
	heightFlag := flag.Int("height", 0, "Display height")
	speedFlag := flag.Uint("speed", 0, "SPI clock speed in Hz")
	maxTransferFlag := flag.Int("max-transfer", 0, "Largest SPI write in bytes")
	imageFlag := flag.String("image", "", "PNG image to show")
	ttfFlag := flag.String("ttf", "", "TrueType font to show")
	verboseFlag := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()
	verbose = *verboseFlag

	conf, err := loadConfig(*configFlag)
	if err != nil {
		fatal("load config", err, "path", *configFlag)
	}
	if *spiFlag != "" {
		conf.Port = *spiFlag
	}
	if *resetFlag != "" {
		conf.ResetPin = *resetFlag
	}
	if *dcFlag != "" {
		conf.DCPin = *dcFlag
	}
	if *buttonFlag != "" {
		conf.ButtonPin = *buttonFlag
	}
	if *widthFlag != 0 {
		conf.Width = *widthFlag
	}
	if *heightFlag != 0 {
		conf.Height = *heightFlag
	}
	if *speedFlag != 0 {
		conf.SpeedHz = uint32(*speedFlag)
	}
	if *maxTransferFlag != 0 {
		conf.MaxTransfer = *maxTransferFlag
	}
	logInfo("wiring",
		"port", conf.Port,
		"reset", conf.ResetPin,
		"dc", conf.DCPin,
		"size", fmt.Sprintf("%dx%d", conf.Width, conf.Height),
		"speed_hz", conf.SpeedHz)

	if _, err = host.Init(); err != nil {
		fatal("host init", err)
	}

	c, err := ssd1351.OpenSPI(&ssd1351.SPIConfig{
		Port:        conf.Port,
		SpeedHz:     conf.SpeedHz,
		MaxTransfer: conf.MaxTransfer,
		Reset:       gpioreg.ByName(conf.ResetPin),
		DC:          gpioreg.ByName(conf.DCPin),
	})
	if err != nil {
		fatal("open connection", err)
	}
	logInfo("connected", "conn", c)

	d, err := ssd1351.New(c, &ssd1351.Config{Width: conf.Width, Height: conf.Height})
	if err != nil {
		fatal("configure display", err)
	}
	if err = d.Begin(); err != nil {
		fatal("initialize display", err)
	}
	logInfo("display ready", "display", d)

	scenes := []demoScene{
		{"fills", sceneFills},
		{"gradient", sceneGradient},
		{"text", sceneText},
		{"contrast", sceneContrast},
		{"invert", sceneInvert},
	}
	if *imageFlag != "" {
		img, err := loadPNG(*imageFlag)
		if err != nil {
			fatal("load image", err, "path", *imageFlag)
		}
		scenes = append(scenes, imageScene(img))
	}
	if *ttfFlag != "" {
		data, err := os.ReadFile(*ttfFlag)
		if err != nil {
			fatal("load font", err, "path", *ttfFlag)
		}
		face, err := ssd1351.LoadFontFace(data, 18)
		if err != nil {
			fatal("parse font", err, "path", *ttfFlag)
		}
		scenes = append(scenes, faceScene(face))
	}

	// A button press skips to the next scene.
	next := make(chan struct{}, 1)
	if conf.ButtonPin != "" {
		b, err := button.New(gpioreg.ByName(conf.ButtonPin), gpio.PullUp)
		if err != nil {
			fatal("open button", err, "pin", conf.ButtonPin)
		}
		logInfo("button ready", "button", b)
		go func() {
			for {
				if !b.WaitForPress(-1) {
					return
				}
				select {
				case next <- struct{}{}:
				default:
				}
				for b.Pressed() {
					time.Sleep(10 * time.Millisecond)
				}
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var scene, frame int
	advance := func() {
		// Scenes may leave the panel inverted or dimmed.
		if err := d.Normal(); err != nil {
			fatal("restore mode", err)
		}
		if err := d.SetContrast(0x0F); err != nil {
			fatal("restore contrast", err)
		}
		scene = (scene + 1) % len(scenes)
		frame = 0
		logDebug("scene", "name", scenes[scene].name)
	}

	logInfo("running", "scenes", len(scenes))
	logDebug("scene", "name", scenes[scene].name)
	for running := true; running; {
		if err = scenes[scene].draw(d, frame); err != nil {
			fatal("draw scene", err, "scene", scenes[scene].name)
		}
		select {
		case <-sig:
			running = false
		case <-next:
			advance()
		case <-ticker.C:
			frame++
			if frame == 200 {
				advance()
			}
		}
	}

	logInfo("shutting down")
	if err = d.Show(false); err != nil {
		logError("display off", err)
	}
	if err = d.Close(); err != nil {
		logError("close", err)
	}
}

// sceneFills cycles solid primary colors.
func sceneFills(d *ssd1351.Display, frame int) error {
	colors := []color.RGBA{
		{R: 0xFF, A: 0xFF},
		{G: 0xFF, A: 0xFF},
		{B: 0xFF, A: 0xFF},
		{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
	return d.FillScreen(colors[(frame/25)%len(colors)])
}

// sceneGradient plots a moving RGB gradient.
func sceneGradient(d *ssd1351.Display, frame int) error {
	r := d.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.Set(x, y, color.RGBA{
				R: uint8(x + y + frame),
				G: uint8(x - y + frame),
				B: uint8(x + y - frame),
				A: 0xFF,
			})
		}
	}
	return d.Refresh()
}

// sceneText shows the bundled bitmap font at both scales.
func sceneText(d *ssd1351.Display, frame int) error {
	if frame%20 != 0 {
		return nil
	}
	d.Clear()
	d.DrawText(4, 8, "SSD1351", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	d.DrawText(4, 20, time.Now().Format("15:04:05"), color.RGBA{G: 0xFF, A: 0xFF})
	d.DrawTextScaled(4, 36, "OLED", color.RGBA{R: 0xFF, G: 0x80, A: 0xFF}, 3, 2)
	return d.Refresh()
}

// sceneContrast ramps the master contrast over a white screen.
func sceneContrast(d *ssd1351.Display, frame int) error {
	if frame == 0 {
		if err := d.FillScreen(color.White); err != nil {
			return err
		}
	}
	return d.SetContrast(uint8(frame/12) & 0x0F)
}

// sceneInvert toggles inverted color mode over the previous scene's buffer.
func sceneInvert(d *ssd1351.Display, frame int) error {
	switch frame % 40 {
	case 0:
		return d.Normal()
	case 20:
		return d.Invert()
	}
	return nil
}

func imageScene(img image.Image) demoScene {
	return demoScene{"image", func(d *ssd1351.Display, frame int) error {
		if frame != 0 {
			return nil
		}
		d.Clear()
		if err := d.Refresh(); err != nil {
			return err
		}
		b, size := d.Bounds(), img.Bounds().Size()
		return d.DrawImage(image.Pt((b.Dx()-size.X)/2, (b.Dy()-size.Y)/2), img)
	}}
}

func faceScene(face font.Face) demoScene {
	return demoScene{"truetype", func(d *ssd1351.Display, frame int) error {
		if frame%20 != 0 {
			return nil
		}
		d.Clear()
		d.DrawString(4, 32, face, time.Now().Format("15:04"), color.White)
		d.DrawString(4, 56, face, "hello!", color.RGBA{R: 0xFF, G: 0xC0, A: 0xFF})
		return d.Refresh()
	}}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
