package forecast

import (
	"fmt"
	"math"

	"ech-simulator/internal/analysis"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrendSeasonal fits a piecewise-linear trend with evenly spaced
// changepoints, a yearly Fourier series and an optional scenario
// regressor by ridge regression on the standardised (log) series.
//
// Seasonality is multiplicative when the fit runs on log prices, which
// is the default. Interval width grows with the forecast distance through
// the changepoint magnitudes seen in history.
type TrendSeasonal struct {
	MaxChangepoints  int
	ChangepointRange float64 // share of history eligible for changepoints
	FourierOrder     int
	Period           float64
}

// NewTrendSeasonal creates the primary model with monthly defaults.
func NewTrendSeasonal() *TrendSeasonal {
	return &TrendSeasonal{
		MaxChangepoints:  25,
		ChangepointRange: 0.8,
		FourierOrder:     5,
		Period:           12,
	}
}

const (
	minHistory          = 6
	minSeasonalHistory  = 24
	baseRidge           = 1e-6
	regressorPriorScale = 10.0
)

func (m *TrendSeasonal) Name() string { return ModelTrendSeasonal }

func (m *TrendSeasonal) Coverage(cfg Config) float64 { return cfg.IntervalWidth }

// Probe fits a small synthetic series; an error means the solver cannot
// be used under cfg.
func (m *TrendSeasonal) Probe(cfg Config) error {
	const n = 36
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = 1 + 0.1*math.Sin(2*math.Pi*float64(i)/12) + 0.002*float64(i)
	}
	_, err := m.Forecast(Input{History: hist, Horizon: 3}, cfg)
	return err
}

// Forecast fits in and returns the horizon part of the decomposition.
func (m *TrendSeasonal) Forecast(in Input, cfg Config) (*RegionForecast, error) {
	c, err := m.Decompose(in, cfg)
	if err != nil {
		return nil, err
	}
	n := len(in.History)
	out := &RegionForecast{
		Point: c.Fitted[n:],
		Lower: c.Lower[n:],
		Upper: c.Upper[n:],
		Trend: c.Trend[n:],
	}
	if c.Seasonality != nil {
		out.Seasonality = c.Seasonality[n:]
	}
	return out, nil
}

// Components is a fitted decomposition over history followed by horizon,
// in price units and rounded to 4 places. Seasonality is nil when the
// yearly term was not fitted; in multiplicative mode it is a relative
// factor (0.02 = 2% above trend).
type Components struct {
	Trend       []float64 `json:"trend"`
	Seasonality []float64 `json:"seasonality,omitempty"`
	Regressor   []float64 `json:"regressor,omitempty"`
	Fitted      []float64 `json:"fitted"`
	Lower       []float64 `json:"lower"`
	Upper       []float64 `json:"upper"`
}

// Decompose fits the model and evaluates every component on all
// len(History)+Horizon periods.
func (m *TrendSeasonal) Decompose(in Input, cfg Config) (*Components, error) {
	f, err := m.fit(in, cfg)
	if err != nil {
		return nil, err
	}
	c := f.components(m.quantile(cfg))
	if err := c.finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *TrendSeasonal) quantile(cfg Config) float64 {
	return distuv.UnitNormal.Quantile((1 + cfg.IntervalWidth) / 2)
}

// fitted holds everything needed to evaluate the model at any period.
type fitted struct {
	n, total       int
	multiplicative bool
	seasonal       bool
	fourier        int
	period         float64

	zMean, zStd  float64
	changepoints []float64
	regressor    []float64

	beta        []float64
	sigma       float64 // in-sample residual std, standardised units
	slopeSpread float64
	rate        float64 // changepoints per unit of t
}

func (m *TrendSeasonal) fit(in Input, cfg Config) (*fitted, error) {
	n := len(in.History)
	if n == 0 {
		return nil, ErrEmptyHistory
	}
	if n < minHistory {
		return nil, fmt.Errorf("%w: %d periods, need %d", ErrInsufficientHistory, n, minHistory)
	}
	if in.Horizon < 0 {
		return nil, fmt.Errorf("forecast: negative horizon %d", in.Horizon)
	}
	if in.Regressor != nil && len(in.Regressor) != n+in.Horizon {
		return nil, fmt.Errorf("forecast: regressor has %d values, want %d", len(in.Regressor), n+in.Horizon)
	}

	f := &fitted{
		n:              n,
		total:          n + in.Horizon,
		multiplicative: cfg.SeasonalityMode != SeasonalityAdditive,
		seasonal:       cfg.YearlySeasonality && n >= minSeasonalHistory,
		fourier:        m.FourierOrder,
		period:         m.Period,
		regressor:      in.Regressor,
	}

	z := make([]float64, n)
	for i, y := range in.History {
		if f.multiplicative {
			if !(y > 0) {
				return nil, fmt.Errorf("%w: period %d is %v", ErrNonPositive, i, y)
			}
			z[i] = math.Log(y)
		} else {
			z[i] = y
		}
	}
	f.zMean, f.zStd = stat.PopMeanStdDev(z, nil)
	if f.zStd == 0 {
		f.zStd = 1
	}
	for i := range z {
		z[i] = (z[i] - f.zMean) / f.zStd
	}

	histSize := int(math.Floor(float64(n) * m.ChangepointRange))
	k := min(m.MaxChangepoints, histSize-1)
	for j := 1; j <= k; j++ {
		idx := int(math.Round(float64(j*(histSize-1)) / float64(k)))
		f.changepoints = append(f.changepoints, f.t(idx))
	}

	p := f.width()
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.SetRow(i, f.row(i))
	}

	a := mat.NewSymDense(p, nil)
	a.SymOuterK(1, x.T())
	for j, l := range f.ridge(cfg) {
		a.SetSym(j, j, a.At(j, j)+l)
	}
	var rhs mat.VecDense
	rhs.MulVec(x.T(), mat.NewVecDense(n, z))

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, ErrSingular
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	f.beta = make([]float64, p)
	for j := range f.beta {
		f.beta[j] = beta.AtVec(j)
	}

	var sse float64
	for i := 0; i < n; i++ {
		r := z[i] - floats.Dot(f.row(i), f.beta)
		sse += r * r
	}
	f.sigma = math.Sqrt(sse / float64(n))

	if k > 0 {
		var abs float64
		for _, d := range f.beta[2 : 2+k] {
			abs += math.Abs(d)
		}
		f.slopeSpread = abs / float64(k)
		f.rate = float64(k) / m.ChangepointRange
	}
	return f, nil
}

// t maps a period index onto [0, 1] across the history.
func (f *fitted) t(i int) float64 { return float64(i) / float64(f.n-1) }

func (f *fitted) width() int {
	p := 2 + len(f.changepoints)
	if f.seasonal {
		p += 2 * f.fourier
	}
	if f.regressor != nil {
		p++
	}
	return p
}

// row is the design row for period i: intercept, slope, changepoint
// hinges, Fourier pairs, regressor.
func (f *fitted) row(i int) []float64 {
	t := f.t(i)
	r := make([]float64, 0, f.width())
	r = append(r, 1, t)
	for _, s := range f.changepoints {
		r = append(r, math.Max(0, t-s))
	}
	if f.seasonal {
		for k := 1; k <= f.fourier; k++ {
			arg := 2 * math.Pi * float64(k) * float64(i) / f.period
			r = append(r, math.Cos(arg), math.Sin(arg))
		}
	}
	if f.regressor != nil {
		r = append(r, f.regressor[i])
	}
	return r
}

func (f *fitted) ridge(cfg Config) []float64 {
	l := make([]float64, 0, f.width())
	l = append(l, baseRidge, baseRidge)
	for range f.changepoints {
		l = append(l, 1/(cfg.ChangepointPriorScale*cfg.ChangepointPriorScale))
	}
	if f.seasonal {
		for k := 0; k < 2*f.fourier; k++ {
			l = append(l, 1/(cfg.SeasonalityPriorScale*cfg.SeasonalityPriorScale))
		}
	}
	if f.regressor != nil {
		l = append(l, 1/(regressorPriorScale*regressorPriorScale))
	}
	return l
}

// interval is the standardised predictive std at period i. Past the
// history it adds the variance of future slope changes.
func (f *fitted) interval(i int) float64 {
	v := f.sigma * f.sigma
	if i >= f.n && f.rate > 0 {
		d := float64(i-f.n+1) / float64(f.n-1)
		v += f.slopeSpread * f.slopeSpread * f.rate * d * d * d / 3
	}
	return math.Sqrt(v)
}

func (f *fitted) components(q float64) *Components {
	c := &Components{
		Trend:  make([]float64, f.total),
		Fitted: make([]float64, f.total),
		Lower:  make([]float64, f.total),
		Upper:  make([]float64, f.total),
	}
	if f.seasonal {
		c.Seasonality = make([]float64, f.total)
	}
	if f.regressor != nil {
		c.Regressor = make([]float64, f.total)
	}

	nTrend := 2 + len(f.changepoints)
	for i := 0; i < f.total; i++ {
		r := f.row(i)
		trend := floats.Dot(r[:nTrend], f.beta[:nTrend])
		season := 0.0
		if f.seasonal {
			season = floats.Dot(r[nTrend:nTrend+2*f.fourier], f.beta[nTrend:nTrend+2*f.fourier])
		}
		yhat := floats.Dot(r, f.beta)
		band := q * f.zStd * f.interval(i)

		z := f.zMean + f.zStd*yhat
		c.Fitted[i] = f.level(z)
		c.Lower[i] = f.level(z - band)
		c.Upper[i] = f.level(z + band)
		c.Trend[i] = f.level(f.zMean + f.zStd*trend)
		if f.seasonal {
			c.Seasonality[i] = f.relative(f.zStd * season)
		}
		if f.regressor != nil {
			c.Regressor[i] = f.relative(f.zStd * r[len(r)-1] * f.beta[len(f.beta)-1])
		}
	}
	return c
}

func (f *fitted) level(z float64) float64 {
	if f.multiplicative {
		return math.Exp(z)
	}
	return z
}

func (f *fitted) relative(z float64) float64 {
	if f.multiplicative {
		return math.Exp(z) - 1
	}
	return z
}

// finalize rounds every series and rejects non-finite output.
func (c *Components) finalize() error {
	for _, s := range [][]float64{c.Trend, c.Seasonality, c.Regressor, c.Fitted, c.Lower, c.Upper} {
		for i, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrNonFinite
			}
			s[i] = analysis.Round(v, roundingPlaces)
		}
	}
	return nil
}
