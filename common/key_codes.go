package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA = 65 // A key (ASCII)
	KeyB = 66 // B key (ASCII)
	KeyF = 70 // F key (ASCII)
	KeyI = 73 // I key (ASCII)
	KeyL = 76 // L key (ASCII)
	KeyM = 77 // M key (ASCII)
	KeyO = 79 // O key (ASCII)
	KeyP = 80 // P key (ASCII)
	KeyR = 82 // R key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyT = 84 // T key (ASCII)
	KeyU = 85 // U key (ASCII)
	KeyV = 86 // V key (ASCII)
	KeyW = 87 // W key (ASCII)

	KeyMinus       = 45 // - key (ASCII)
	KeyEqual       = 61 // = / + key (ASCII)
	KeyGraveAccent = 96 // ` key (ASCII)
	KeySpace       = 32 // Spacebar (ASCII)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
)

// Additional non-printable keys
const (
	KeyEsc        = 256 // Escape key (GLFW)
	KeyEnter      = 257 // Enter key (GLFW)
	KeyBackspace  = 259 // Backspace key (GLFW)
	KeyF1         = 290 // F1 (GLFW)
	KeyF5         = 294 // F5 (GLFW)
	KeyKPSubtract = 333 // Keypad - (GLFW)
	KeyKPAdd      = 334 // Keypad + (GLFW)
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)
