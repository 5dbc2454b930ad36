package volclouds

const (
	ChR = 0
	ChG = 1
	ChB = 2
	// March
	StepSizeRender = 8
	MinStepSize    = 5
	NumStepsLight  = 8
	// Base shape / detail
	CloudScale        = 1
	DensityMultiplier = 1
	DetailNoiseScale  = 10
	DetailNoiseWeight = 0.1
	// Lighting
	LightAbsorptionThroughCloud = 1
	LightAbsorptionTowardSun    = 1
	DarknessThreshold           = 0.2
	ForwardScattering           = 0.83
	BackScattering              = 0.3
	BaseBrightness              = 0.8
	PhaseFactor                 = 0.15
	// Animation
	TimeScale   = 1
	BaseSpeed   = 1
	DetailSpeed = 2
	// Run defaults
	Width     = 320
	Height    = 180
	Frames    = 1
	FrameTime = 0.1 // seconds of simulated time between frames
	FovDeg    = 60
	GIFOut    = "clouds.gif"
	GIFDelay  = 10 // 100ths of a second per frame
	Gamma     = 1.0
	// run limits
	MaxFrameDim = 8192
	MaxFrames   = 3600
	// density sampling constants
	baseScale            = 1.0 / 1000.0
	offsetSpeed          = 1.0 / 100.0
	containerEdgeFadeDst = 50.0
	// march termination
	saturationEpsilon = 0.01
	// HG lobes blow up at |g| = 1 with a = ±1
	maxAsymmetry = 0.999
	camNear      = 0.1
	camFar       = 100000.0
)
