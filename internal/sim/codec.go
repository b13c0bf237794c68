package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
)

// A record is tag,x,y,vx,vy,mass,radius. The velocity pair is itself
// comma-joined, so records are read by fixed arity rather than by splitting
// on a separator count.
const tokensPerRecord = 7

// Encode writes bodies as one flat comma-joined record stream.
func Encode(bodies []*physics.Body) string {
	tokens := make([]string, 0, len(bodies)*tokensPerRecord)
	for _, b := range bodies {
		tokens = append(tokens,
			strconv.Itoa(int(b.Tag())),
			formatFloat(b.Position.X),
			formatFloat(b.Position.Y),
			formatVelocity(b.Velocity),
			formatFloat(b.Mass),
			formatFloat(b.Radius),
		)
	}
	return strings.Join(tokens, ",")
}

func formatVelocity(v dynamo.Vec2) string {
	return formatFloat(v.X) + "," + formatFloat(v.Y)
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// recordReader consumes a token stream exactly tokensPerRecord at a time.
type recordReader struct {
	tokens []string
	pos    int
	record int
}

func (r *recordReader) more() bool { return r.pos < len(r.tokens) }

func (r *recordReader) fail(offset int, err error) error {
	value := ""
	if offset < len(r.tokens) {
		value = r.tokens[offset]
	}
	return &dynamo.FormatError{Record: r.record, Token: offset, Value: value, Wrapped: err}
}

func (r *recordReader) float(offset int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.tokens[offset]), 64)
	if err != nil || math.IsNaN(v) {
		return 0, r.fail(offset, dynamo.ErrMalformedRecord)
	}
	return v, nil
}

func (r *recordReader) next() (*physics.Body, error) {
	base := r.pos
	if len(r.tokens)-base < tokensPerRecord {
		return nil, r.fail(len(r.tokens)-1, fmt.Errorf("%w: truncated record", dynamo.ErrMalformedRecord))
	}

	tag, err := strconv.Atoi(strings.TrimSpace(r.tokens[base]))
	if err != nil {
		return nil, r.fail(base, dynamo.ErrMalformedRecord)
	}
	kind, ok := physics.KindForTag(physics.Tag(tag))
	if !ok {
		return nil, r.fail(base, dynamo.ErrUnknownTag)
	}

	var f [tokensPerRecord - 1]float64
	for i := range f {
		if f[i], err = r.float(base + 1 + i); err != nil {
			return nil, err
		}
	}
	x, y, vx, vy, mass, radius := f[0], f[1], f[2], f[3], f[4], f[5]

	if math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsInf(vx, 0) || math.IsInf(vy, 0) {
		return nil, r.fail(base+1, fmt.Errorf("%w: non-finite position or velocity", dynamo.ErrMalformedRecord))
	}
	if mass <= 0 {
		return nil, r.fail(base+5, fmt.Errorf("%w: mass must be positive", dynamo.ErrMalformedRecord))
	}
	if radius <= 0 || math.IsInf(radius, 0) {
		return nil, r.fail(base+6, fmt.Errorf("%w: radius must be positive", dynamo.ErrMalformedRecord))
	}

	b := physics.New(kind, dynamo.V(x, y), physics.WithMass(mass), physics.WithRadius(radius))
	b.Velocity = dynamo.V(vx, vy)

	r.pos += tokensPerRecord
	r.record++
	return b, nil
}

// Decode parses a record stream produced by Encode. An empty stream
// decodes to no bodies.
func Decode(data string) ([]*physics.Body, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}

	r := &recordReader{tokens: strings.Split(data, ",")}
	var bodies []*physics.Body
	for r.more() {
		b, err := r.next()
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// Save serializes every body in entity order. The background is not
// part of the record.
func (w *World) Save() string {
	return Encode(w.Bodies())
}

// Load replaces the world's bodies with those in data. On a format error
// the world is left reset, holding only its background.
func (w *World) Load(data string) error {
	w.Reset()

	bodies, err := Decode(data)
	if err != nil {
		w.logger.Warn("load rejected", zap.Error(err))
		return fmt.Errorf("load world: %w", err)
	}

	for _, b := range bodies {
		w.AddEntity(b)
	}
	w.logger.Debug("world loaded", zap.Int("bodies", len(bodies)))
	return nil
}
