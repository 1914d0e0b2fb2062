// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Controls ControlsConfig `yaml:"controls"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ControlsConfig holds the orbit controls configuration surface. Angles are
// given in degrees; distance and zoom maxima of zero mean unlimited.
type ControlsConfig struct {
	EnableRotate bool `yaml:"enable_rotate"`
	EnablePan    bool `yaml:"enable_pan"`
	EnableZoom   bool `yaml:"enable_zoom"`

	EnableDamping bool    `yaml:"enable_damping"`
	DampingFactor float32 `yaml:"damping_factor"`

	RotateSpeed float32 `yaml:"rotate_speed"`
	PanSpeed    float32 `yaml:"pan_speed"`
	ZoomSpeed   float32 `yaml:"zoom_speed"`
	KeyPanSpeed float32 `yaml:"key_pan_speed"`

	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	MinZoom     float32 `yaml:"min_zoom"`
	MaxZoom     float32 `yaml:"max_zoom"`

	MinPolarDeg float32 `yaml:"min_polar_deg"`
	MaxPolarDeg float32 `yaml:"max_polar_deg"`

	LimitAzimuth  bool    `yaml:"limit_azimuth"`
	MinAzimuthDeg float32 `yaml:"min_azimuth_deg"`
	MaxAzimuthDeg float32 `yaml:"max_azimuth_deg"`

	ZoomToCursor       bool `yaml:"zoom_to_cursor"`
	ScreenSpacePanning bool `yaml:"screen_space_panning"`

	AutoRotate      bool    `yaml:"auto_rotate"`
	AutoRotateSpeed float32 `yaml:"auto_rotate_speed"`

	// Button and touch mappings: "rotate", "dolly", "pan", "none" for mouse;
	// "rotate", "pan", "dolly-pan", "dolly-rotate", "none" for touch.
	MouseLeft   string `yaml:"mouse_left"`
	MouseMiddle string `yaml:"mouse_middle"`
	MouseRight  string `yaml:"mouse_right"`
	TouchOne    string `yaml:"touch_one"`
	TouchTwo    string `yaml:"touch_two"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "sceneview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Controls: ControlsConfig{
			EnableRotate:       true,
			EnablePan:          true,
			EnableZoom:         true,
			EnableDamping:      false,
			DampingFactor:      0.05,
			RotateSpeed:        1,
			PanSpeed:           1,
			ZoomSpeed:          1,
			KeyPanSpeed:        7,
			MinDistance:        0,
			MaxDistance:        0,
			MinZoom:            0,
			MaxZoom:            0,
			MinPolarDeg:        0,
			MaxPolarDeg:        180,
			LimitAzimuth:       false,
			ZoomToCursor:       false,
			ScreenSpacePanning: true,
			AutoRotate:         false,
			AutoRotateSpeed:    2,
			MouseLeft:          "rotate",
			MouseMiddle:        "dolly",
			MouseRight:         "pan",
			TouchOne:           "rotate",
			TouchTwo:           "dolly-pan",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
