package starchart

// DefaultSceneConfig returns a complete, valid scene: three rings, a
// few thousand stars and a moderate post stack at 1024×1024 with 2×
// supersampling.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Seed:       1,
		Resolution: Resolution{Width: 1024, Height: 1024, SSAA: 2},
		Camera:     Camera{TiltDeg: 0, FOVDeg: 35},
		Rings: []Ring{
			{
				R:             0.34,
				Width:         1,
				Color:         RGB(0x8f, 0xa8, 0xd8),
				Dash:          []float64{4, 2},
				LabelAngleDeg: 270,
				HaloStrength:  0.4,
			},
			{
				R:             0.62,
				Width:         1.25,
				Color:         RGB(0xcc, 0xd6, 0xf0),
				TicksEveryDeg: 10,
				TickLength:    0.025,
				Label:         "ECLIPTIC",
				LabelAngleDeg: 300,
				HaloStrength:  0.8,
			},
			{
				R:             0.9,
				Width:         1.5,
				Color:         RGB(0xe8, 0xd9, 0xb0),
				TicksEveryDeg: 30,
				TickLength:    0.04,
				Labels: []RingLabel{
					{Text: "0°", AngleDeg: 0},
					{Text: "90°", AngleDeg: 90},
					{Text: "180°", AngleDeg: 180},
					{Text: "270°", AngleDeg: 270},
				},
				HaloStrength: 1,
			},
		},
		Stars: Stars{
			Core:            StarCore{Sigma: 0.32, Alpha: 1.1, Count: 2400},
			Halo:            StarHalo{Count: 900, MinR: 0.2, MaxR: 1},
			BrightnessPower: 2.3,
			BrightnessMin:   0.04,
			BrightnessMax:   1,
			OutlierFraction: 0.01,
			SizeMin:         0.0012,
			SizeMax:         0.0045,
			ColorCool:       RGB(0x9b, 0xb4, 0xff),
			ColorWarm:       RGB(0xff, 0xc8, 0x8a),
		},
		Text: Text{
			Font:          "gomedium",
			SizePx:        14,
			Tracking:      1.5,
			TabularDigits: true,
			Uppercase:     true,
			Color:         RGB(0xe6, 0xec, 0xff),
		},
		Post: Post{
			Exposure:            1,
			Bloom:               Bloom{Threshold: 0.85, Intensity: 0.6, Radius: 4, Levels: 5},
			ChromaticAberration: ChromaticAberration{K: 0.004},
			Vignette:            0.35,
			Grain:               Grain{Strength: 0.025, BlueNoise: true},
			LUT:                 LUT{Name: "teal_orange", Strength: 0.5},
		},
	}
}
