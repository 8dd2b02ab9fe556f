package memory_test

import (
	"testing"

	"github.com/aretw0/mframework/pkg/adapters/memory"
	"github.com/aretw0/mframework/pkg/ports"
)

var _ ports.DocumentStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDocumentStoreContract(t, store)
}
