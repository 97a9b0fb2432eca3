package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/retrogolib/log"
)

// Tone output settings.
const (
	SampleRate    = 44100
	ToneFrequency = 440
	toneVolume    = 0.15
	bytesPerFloat = 4
)

// Oto plays a square wave through the system audio device while active.
type Oto struct {
	logger *log.Logger
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
	mutex  sync.Mutex // only for setup and close
}

// NewOto opens the audio device and starts the stream, which stays silent
// until the beeper is activated.
func NewOto(logger *log.Logger) (*Oto, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	wave := newSquareWave(SampleRate, ToneFrequency)
	player := ctx.NewPlayer(wave)
	player.Play()

	return &Oto{
		logger: logger,
		ctx:    ctx,
		player: player,
		wave:   wave,
	}, nil
}

// SetActive turns the tone on or off.
func (o *Oto) SetActive(active bool) {
	if o.wave.active.Swap(active) == active {
		return
	}
	state := "off"
	if active {
		state = "on"
	}
	o.logger.Debug("Sound state changed", log.String("tone", state))
}

// Close stops the playback.
func (o *Oto) Close() error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}

// squareWave is an io.Reader producing mono float32 little endian samples.
// Read is called from the audio goroutine, the active flag is atomic so
// that the frame loop can toggle it without locking.
type squareWave struct {
	active    atomic.Bool
	period    float64 // samples per wave period
	phase     float64 // position inside of the current period
	amplitude float32
}

func newSquareWave(sampleRate, frequency int) *squareWave {
	return &squareWave{
		period:    float64(sampleRate) / float64(frequency),
		amplitude: toneVolume,
	}
}

// Read fills p with samples, silence while inactive.
func (w *squareWave) Read(p []byte) (int, error) {
	samples := len(p) / bytesPerFloat
	active := w.active.Load()

	for i := range samples {
		var sample float32
		if active {
			if w.phase < w.period/2 {
				sample = w.amplitude
			} else {
				sample = -w.amplitude
			}
		}
		w.phase = math.Mod(w.phase+1, w.period)
		binary.LittleEndian.PutUint32(p[i*bytesPerFloat:], math.Float32bits(sample))
	}
	return samples * bytesPerFloat, nil
}
