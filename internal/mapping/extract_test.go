package mapping

import (
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"xmlprocessor/internal/database"
	"xmlprocessor/internal/models"
	"xmlprocessor/internal/store"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(testDB); err != nil {
		log.Fatalf("Failed to migrate test database schema: %v", err)
	}
	os.Exit(m.Run())
}

// seedInterface creates a client with one active interface and, optionally,
// one required rule.
func seedInterface(t *testing.T, withRule bool) (*Engine, *models.Interface) {
	t.Helper()

	clients := store.NewClientStore(testDB)
	interfaces := store.NewInterfaceStore(testDB)
	rules := store.NewMappingRuleStore(testDB)

	suffix := uuid.New().String()[:8]
	client := &models.Client{
		Name: "Mapping Test Client " + suffix,
		Code: "MAP-" + suffix,
	}
	require.NoError(t, clients.Create(client))

	iface := &models.Interface{
		ClientID:    client.ID,
		Name:        "orders",
		RootElement: "Order",
		IsActive:    true,
	}
	require.NoError(t, interfaces.Create(iface))

	if withRule {
		require.NoError(t, rules.Create(&models.MappingRule{
			ClientID:    client.ID,
			InterfaceID: iface.ID,
			Name:        "order-id",
			XMLPath:     "/Order/Id",
			TargetField: "orderId",
			DataType:    "STRING",
			Required:    true,
			IsActive:    true,
		}))
	}
	return NewEngine(rules, interfaces), iface
}

func TestExtract_VanishedConfiguration(t *testing.T) {
	engine, iface := seedInterface(t, true)
	doc := mustParse(t, `<Order><Id>ORD-1</Id></Order>`)

	record, err := engine.Extract(doc, iface)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", record["orderId"])

	// deleting the interface takes its rules with it
	require.NoError(t, store.NewInterfaceStore(testDB).Delete(iface.ClientID, iface.ID))

	_, err = engine.Extract(doc, iface)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConfigurationNotFound,
		"a deleted configuration must not extract an empty record")
}

func TestExtract_InterfaceWithoutRules(t *testing.T) {
	engine, iface := seedInterface(t, false)
	doc := mustParse(t, `<Order><Id>ORD-2</Id></Order>`)

	record, err := engine.Extract(doc, iface)
	require.NoError(t, err, "an existing interface with no rules is not an error")
	assert.Empty(t, record)
}
