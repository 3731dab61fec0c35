package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactionName(t *testing.T) {
	assert.Equal(t, "Magos", FactionName("MAGOS"))
	assert.Equal(t, "Verta", FactionName("VERTA"))
	assert.Equal(t, "Monster", FactionName("MONSTER"))
}

func TestCharacterName(t *testing.T) {
	assert.Equal(t, "Kim", CharacterName("KIM"))
	assert.Equal(t, "Hytty", CharacterName("HYTTY"))
	assert.Equal(t, "Slime", CharacterName("SLIME"))
}

func TestUnknownCodesPassThrough(t *testing.T) {
	// New server-side values must render without a client update.
	assert.Equal(t, "GOBLIN", FactionName("GOBLIN"))
	assert.Equal(t, "ZOE", CharacterName("ZOE"))
	assert.Equal(t, "Unknown", FactionName("Unknown"))
	assert.Equal(t, "", CharacterName(""))
}

func TestWinRatePercent(t *testing.T) {
	assert.Equal(t, 55, WinRatePercent(54.5))
	assert.Equal(t, 54, WinRatePercent(54.4))
	assert.Equal(t, 0, WinRatePercent(0))
	assert.Equal(t, 100, WinRatePercent(99.9))
}
