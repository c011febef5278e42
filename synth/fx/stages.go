package fx

import "math"

const (
	driveAmount = 0.4

	chorusRate  = 1.5    // Hz
	chorusDelay = 0.0035 // seconds
	chorusDepth = 0.7

	delayTime     = 0.375 // seconds
	delayFeedback = 0.4
	delayCutoff   = 2000 // Hz, damping in the feedback path

	reverbDecay = 2.5 // seconds to -60 dB
	allpassGain = 0.7
)

var (
	combTimes    = []float64{0.0297, 0.0371, 0.0411, 0.0437}
	allpassTimes = []float64{0.005, 0.0017}
)

// line is a circular delay buffer.
type line struct {
	buf []float64
	pos int
}

func newLine(n int) *line {
	if n < 2 {
		n = 2
	}
	return &line{buf: make([]float64, n)}
}

func (l *line) write(x float64) {
	l.buf[l.pos] = x
	l.pos = (l.pos + 1) % len(l.buf)
}

// at returns the sample written n writes ago; at(0) is the latest.
func (l *line) at(n int) float64 {
	i := (l.pos - 1 - n) % len(l.buf)
	if i < 0 {
		i += len(l.buf)
	}
	return l.buf[i]
}

// read interpolates between whole-sample taps.
func (l *line) read(d float64) float64 {
	i := int(d)
	frac := d - float64(i)
	a, b := l.at(i), l.at(i+1)
	return a + (b-a)*frac
}

func (l *line) reset() {
	clear(l.buf)
	l.pos = 0
}

func samples(seconds, rate float64) int {
	return max(1, int(math.Round(seconds*rate)))
}

// drive is a tanh soft clipper normalized so full scale stays at 1.
type drive struct {
	k    float64
	norm float64
}

func newDrive() *drive {
	k := 1 + 20*driveAmount
	return &drive{k: k, norm: math.Tanh(k)}
}

func (d *drive) process(x float64) float64 {
	return math.Tanh(d.k*x) / d.norm
}

func (d *drive) reset() {}

// chorus reads a short delay swept by a sine LFO.
type chorus struct {
	line   *line
	center float64 // samples
	inc    float64
	phase  float64
}

func newChorus(rate float64) *chorus {
	center := chorusDelay * rate
	return &chorus{
		line:   newLine(int(math.Ceil(center*(1+chorusDepth))) + 2),
		center: center,
		inc:    chorusRate / rate,
	}
}

func (c *chorus) process(x float64) float64 {
	c.line.write(x)
	d := c.center * (1 + chorusDepth*math.Sin(2*math.Pi*c.phase))
	c.phase += c.inc
	if c.phase >= 1 {
		c.phase--
	}
	return c.line.read(d)
}

func (c *chorus) reset() {
	c.line.reset()
	c.phase = 0
}

// delay is a feedback echo with a low-passed repeat.
type delay struct {
	line  *line
	n     int
	a     float64 // one-pole coefficient
	state float64
}

func newDelay(rate float64) *delay {
	n := samples(delayTime, rate)
	return &delay{
		line: newLine(n + 1),
		n:    n,
		a:    1 - math.Exp(-2*math.Pi*delayCutoff/rate),
	}
}

func (d *delay) process(x float64) float64 {
	echo := d.line.at(d.n - 1)
	d.state += d.a * (echo - d.state)
	d.line.write(x + delayFeedback*d.state)
	return d.state
}

func (d *delay) reset() {
	d.line.reset()
	d.state = 0
}

type comb struct {
	line *line
	n    int
	g    float64
}

func (c *comb) process(x float64) float64 {
	y := c.line.at(c.n - 1)
	c.line.write(x + c.g*y)
	return y
}

type allpass struct {
	line *line
	n    int
}

func (a *allpass) process(x float64) float64 {
	d := a.line.at(a.n - 1)
	w := x + allpassGain*d
	a.line.write(w)
	return d - allpassGain*w
}

// reverb is a Schroeder reverberator: parallel combs into series allpasses.
type reverb struct {
	combs     []*comb
	allpasses []*allpass
}

func newReverb(rate float64) *reverb {
	r := &reverb{}
	for _, t := range combTimes {
		n := samples(t, rate)
		g := math.Pow(10, -3*float64(n)/rate/reverbDecay)
		r.combs = append(r.combs, &comb{line: newLine(n + 1), n: n, g: g})
	}
	for _, t := range allpassTimes {
		n := samples(t, rate)
		r.allpasses = append(r.allpasses, &allpass{line: newLine(n + 1), n: n})
	}
	return r
}

func (r *reverb) process(x float64) float64 {
	var y float64
	for _, c := range r.combs {
		y += c.process(x)
	}
	y /= float64(len(r.combs))
	for _, a := range r.allpasses {
		y = a.process(y)
	}
	return y
}

func (r *reverb) reset() {
	for _, c := range r.combs {
		c.line.reset()
	}
	for _, a := range r.allpasses {
		a.line.reset()
	}
}
