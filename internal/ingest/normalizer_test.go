package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGreetingTemplate(t *testing.T) {
	got := Normalize("Acme Corp\nJuan Perez\nNo puedo acceder al sistema\ndesde ayer", "ignored")

	assert.Equal(t, "Acme Corp", got.Organization)
	assert.Equal(t, "Juan Perez", got.Contact)
	assert.Equal(t, "No puedo acceder al sistema\ndesde ayer", got.Body)
}

func TestNormalizeSkipsBlankLines(t *testing.T) {
	got := Normalize("  Acme Corp  \n\n  Juan Perez \n\n  el sistema no anda  ", "")

	assert.Equal(t, "Acme Corp", got.Organization)
	assert.Equal(t, "Juan Perez", got.Contact)
	assert.Equal(t, "el sistema no anda", got.Body)
}

func TestNormalizeShortTextFallsBackToSenderName(t *testing.T) {
	got := Normalize("hola necesito ayuda", "Maria Lopez")

	assert.Equal(t, "Maria Lopez", got.Organization)
	assert.Equal(t, "Maria Lopez", got.Contact)
	assert.Equal(t, "hola necesito ayuda", got.Body)
}

func TestNormalizeShortTextWithoutSenderName(t *testing.T) {
	got := Normalize("hola", "")

	assert.Equal(t, UnknownOrganization, got.Organization)
	assert.Equal(t, UnknownContact, got.Contact)
	assert.Equal(t, "hola", got.Body)
}

func TestNormalizeEmptyText(t *testing.T) {
	got := Normalize("", "")

	assert.Equal(t, "", got.Body)
	assert.Equal(t, UnknownOrganization, got.Organization)
}
