package volclouds

var (
	Debug = false // verbose debug output and march statistics
	PNG   = false // save a 16-bit PNG sequence instead of an animated GIF
	RAW   = false // additionally dump raw float64 frames
)
