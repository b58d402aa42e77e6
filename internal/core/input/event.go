package input

import (
	"fmt"
	"strings"

	"github.com/zeusync/bigtime/internal/core/vmath"
)

// Key identifies a discrete input the simulation reacts to.
type Key uint8

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyLookUp
	KeyLookDown
	KeyLookLeft
	KeyLookRight
	KeySpace
	KeyShift

	keyCount
)

var keyNames = [keyCount]string{
	KeyW:         "w",
	KeyA:         "a",
	KeyS:         "s",
	KeyD:         "d",
	KeyLookUp:    "up",
	KeyLookDown:  "down",
	KeyLookLeft:  "left",
	KeyLookRight: "right",
	KeySpace:     "space",
	KeyShift:     "shift",
}

func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// Valid reports whether k is one of the declared keys.
func (k Key) Valid() bool {
	return k < keyCount
}

// ParseKey maps a key name (as produced by Key.String) back to a Key.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// Event is a closed sum of KeyEvent and PointerMotionEvent.
type Event interface {
	isEvent()
}

// KeyEvent reports a key transition.
type KeyEvent struct {
	Key  Key
	Down bool
}

// PointerMotionEvent reports relative pointer movement in screen units
// (x grows to the right, y grows downwards).
type PointerMotionEvent struct {
	Delta vmath.Vec2
}

func (KeyEvent) isEvent()           {}
func (PointerMotionEvent) isEvent() {}

func KeyDown(k Key) Event { return KeyEvent{Key: k, Down: true} }
func KeyUp(k Key) Event   { return KeyEvent{Key: k, Down: false} }

func PointerMotion(dx, dy float32) Event {
	return PointerMotionEvent{Delta: vmath.Vec2{dx, dy}}
}
