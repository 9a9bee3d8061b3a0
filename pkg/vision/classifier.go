package vision

import (
	"image"
	"math"
	"math/rand"
	"time"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// Classifier fabricates plausible-looking detections from coarse image
// statistics. It is the unconditional last-resort engine: which labels
// appear is deterministic in the image, only the exact confidence values
// carry random jitter.
type Classifier struct {
	config ClassifierConfig
	rng    *rand.Rand
}

// ClassifierConfig holds the scene thresholds. The defaults reproduce the
// behavior documented for the full-heuristics variant.
type ClassifierConfig struct {
	// Aspect ratio above which a gray, bright image reads as a highway.
	HighwayAspectRatio float64
	// Minimum brightness for the highway rule.
	HighwayBrightness float64
	// Aspect ratio below which an image reads as portrait/indoor.
	PortraitAspectRatio float64
	// Brightness above which a blue-dominant image gets a sky detection.
	SkyBrightness float64
	// Edge density above which a non-green image gets a building detection.
	BuildingEdgeDensity float64
	// Skin-tone pixel fraction that boosts the person confidence band.
	SkinBoostRatio float64
	// Hard cap on emitted detections.
	MaxDetections int
}

// DefaultClassifierConfig returns the standard thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		HighwayAspectRatio:  1.5,
		HighwayBrightness:   110,
		PortraitAspectRatio: 1.2,
		SkyBrightness:       150,
		BuildingEdgeDensity: 0.1,
		SkinBoostRatio:      0.25,
		MaxDetections:       6,
	}
}

// New creates a Classifier with default thresholds and a time-seeded
// random source.
func New() *Classifier {
	return NewWithRand(DefaultClassifierConfig(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Classifier with an injected random source so
// tests can pin seeds and assert exact confidence values.
func NewWithRand(config ClassifierConfig, rng *rand.Rand) *Classifier {
	return &Classifier{config: config, rng: rng}
}

// indoorObjects are the extras the portrait/indoor rule may add.
var indoorObjects = []string{"chair", "table", "laptop", "phone"}

// outdoorObjects is the pool the general outdoor rule samples from.
var outdoorObjects = []string{"person", "car", "bicycle", "dog", "cat", "bird"}

// Classify maps an image to an ordered list of fabricated detections.
// Order is insertion order of the rules, not confidence order. The result
// never exceeds MaxDetections entries and every confidence is rounded to
// three decimals.
func (c *Classifier) Classify(img image.Image) []types.Detection {
	return c.ClassifyStats(ComputeStats(img))
}

// ClassifyStats runs the rule table on precomputed statistics.
func (c *Classifier) ClassifyStats(stats Stats) []types.Detection {
	var dets []types.Detection

	switch {
	case c.isHighway(stats):
		dets = c.highwayScene(dets, stats)
	case stats.AspectRatio < c.config.PortraitAspectRatio:
		dets = c.portraitScene(dets, stats)
	default:
		dets = c.outdoorScene(dets)
	}

	// Dominant-color and texture add-ons. These may re-emit a label a
	// scene rule already produced, so they append keep-first.
	if stats.GreenDominant() {
		dets = appendUnique(dets, "tree", c.uniform(0.80, 0.95))
	}
	if stats.BlueDominant() && stats.AvgBrightness > c.config.SkyBrightness {
		dets = appendUnique(dets, "sky", c.uniform(0.85, 0.95))
	}
	if stats.EdgeDensity > c.config.BuildingEdgeDensity && !stats.GreenDominant() {
		dets = appendUnique(dets, "building", math.Min(0.70+stats.EdgeDensity, 0.99))
	}

	if len(dets) > c.config.MaxDetections {
		dets = dets[:c.config.MaxDetections]
	}
	return dets
}

func (c *Classifier) isHighway(stats Stats) bool {
	return stats.AspectRatio > c.config.HighwayAspectRatio &&
		stats.GrayDominant() &&
		stats.AvgBrightness > c.config.HighwayBrightness
}

// highwayScene emits a road plus a cluster of vehicles scaled by edge
// density. The car entries are intentional multi-instance detections;
// they are the one label allowed to repeat.
func (c *Classifier) highwayScene(dets []types.Detection, stats Stats) []types.Detection {
	dets = append(dets, types.Detection{
		Label:      "road",
		Confidence: round3(0.85 + c.uniform(-0.10, 0.10)),
	})

	cars := int(stats.EdgeDensity * 15)
	if cars < 2 {
		cars = 2
	}
	if cars > 8 {
		cars = 8
	}
	for i := 0; i < cars; i++ {
		dets = append(dets, types.Detection{
			Label:      "car",
			Confidence: round3(c.uniform(0.75, 0.95)),
		})
	}

	if c.rng.Float64() < stats.EdgeDensity*2 {
		dets = appendUnique(dets, "truck", c.uniform(0.65, 0.85))
	}
	return dets
}

// portraitScene always emits a person; a pronounced skin-tone fraction
// raises the lower end of the confidence band.
func (c *Classifier) portraitScene(dets []types.Detection, stats Stats) []types.Detection {
	lo := 0.75
	if stats.SkinRatio > c.config.SkinBoostRatio {
		lo = 0.80
	}
	dets = append(dets, types.Detection{
		Label:      "person",
		Confidence: round3(c.uniform(lo, 0.95)),
	})

	if c.rng.Float64() < 0.5 {
		obj := indoorObjects[c.rng.Intn(len(indoorObjects))]
		dets = appendUnique(dets, obj, c.uniform(0.60, 0.85))
	}
	return dets
}

// outdoorScene samples 2-4 distinct objects from the common pool.
func (c *Classifier) outdoorScene(dets []types.Detection) []types.Detection {
	count := 2 + c.rng.Intn(3)
	perm := c.rng.Perm(len(outdoorObjects))
	for _, idx := range perm[:count] {
		dets = append(dets, types.Detection{
			Label:      outdoorObjects[idx],
			Confidence: round3(c.uniform(0.65, 0.90)),
		})
	}
	return dets
}

// appendUnique appends a detection unless the label is already present,
// keeping the first occurrence.
func appendUnique(dets []types.Detection, label string, conf float64) []types.Detection {
	for _, d := range dets {
		if d.Label == label {
			return dets
		}
	}
	return append(dets, types.Detection{Label: label, Confidence: round3(conf)})
}

func (c *Classifier) uniform(lo, hi float64) float64 {
	return lo + c.rng.Float64()*(hi-lo)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
