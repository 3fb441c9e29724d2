package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/dashboard"
	"hostel-service/internal/fee"
	"hostel-service/internal/logger"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/metrics"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, rooms ...room.Room) (string, *crud.MemoryStore[room.Room]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roomStore := crud.NewMemoryStore(room.Kind, rooms...)
	stores := dashboard.Stores{
		Students:    crud.NewMemoryStore[student.Student](student.Kind),
		Rooms:       roomStore,
		Fees:        crud.NewMemoryStore[fee.Fee](fee.Kind),
		Visitors:    crud.NewMemoryStore[visitor.Visitor](visitor.Kind),
		Maintenance: crud.NewMemoryStore[maintenance.Request](maintenance.Kind),
	}

	router := gin.New()
	api := router.Group("/api")
	crud.NewHandler[room.Room](room.Kind, roomStore, logger.Discard(), metrics.NewMock().Hostel).RegisterRoutes(api)
	dashboard.NewHandler(stores, logger.Discard()).RegisterRoutes(api)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL, roomStore
}

func run(t *testing.T, server, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--server", server}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func seededRoom(number int, status room.Status, occupants int) room.Room {
	return room.Room{
		ID:        uuid.New(),
		Number:    number,
		Type:      room.TypeTriple,
		Status:    status,
		Occupants: occupants,
		CreatedAt: time.Now().Add(-time.Duration(number) * time.Second),
	}
}

func TestRooms_CreateAndList(t *testing.T) {
	server, _ := startServer(t)

	out, _, err := run(t, server, `{"roomNumber":118,"type":"Single","status":"Vacant","occupants":0}`, "rooms", "create")
	require.NoError(t, err)
	var created room.Room
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, 118, created.Number)
	assert.NotEqual(t, uuid.Nil, created.ID)

	out, _, err = run(t, server, "", "rooms", "list")
	require.NoError(t, err)
	var listed []room.Room
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
}

func TestRooms_CreateRejectsInvalidInput(t *testing.T) {
	server, store := startServer(t)

	_, _, err := run(t, server, `{"roomNumber":118,"type":"Single","status":"Occupied","occupants":0}`, "rooms", "create")
	assert.ErrorIs(t, err, crud.ErrValidation)

	all, _ := store.List(context.Background())
	assert.Empty(t, all)
}

func TestRooms_ListFilters(t *testing.T) {
	server, _ := startServer(t,
		seededRoom(101, room.StatusVacant, 0),
		seededRoom(102, room.StatusOccupied, 2),
		seededRoom(203, room.StatusOccupied, 1),
	)

	out, _, err := run(t, server, "", "rooms", "list", "--status", "occupied", "-q", "20")
	require.NoError(t, err)
	var listed []room.Room
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 203, listed[0].Number)
}

func TestRooms_GetAndUpdate(t *testing.T) {
	r := seededRoom(305, room.StatusVacant, 0)
	server, store := startServer(t, r)

	out, _, err := run(t, server, "", "rooms", "get", r.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, `"roomNumber": 305`)

	_, _, err = run(t, server, `{"roomNumber":305,"type":"Triple","status":"Occupied","occupants":3}`, "rooms", "update", r.ID.String())
	require.NoError(t, err)

	got, err := store.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, room.StatusOccupied, got.Status)
	assert.Equal(t, 3, got.Occupants)

	_, _, err = run(t, server, "", "rooms", "get", uuid.NewString())
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestRooms_DeleteAsksForConfirmation(t *testing.T) {
	r := seededRoom(410, room.StatusVacant, 0)
	server, store := startServer(t, r)

	_, stderr, err := run(t, server, "n\n", "rooms", "delete", r.ID.String())
	require.NoError(t, err)
	assert.Contains(t, stderr, "cancelled")
	_, err = store.Get(context.Background(), r.ID)
	require.NoError(t, err)

	_, _, err = run(t, server, "yes\n", "rooms", "delete", r.ID.String())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), r.ID)
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestRooms_DeleteWithYesFlag(t *testing.T) {
	r := seededRoom(411, room.StatusVacant, 0)
	server, store := startServer(t, r)

	_, _, err := run(t, server, "", "rooms", "delete", "--yes", r.ID.String())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), r.ID)
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestDashboard(t *testing.T) {
	server, _ := startServer(t,
		seededRoom(101, room.StatusVacant, 0),
		seededRoom(102, room.StatusOccupied, 2),
	)

	out, _, err := run(t, server, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Rooms")
	assert.Contains(t, out, "2 (1 occupied, 50%)")
	assert.Contains(t, out, "$0.00")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("Y\n"), &out, "Delete?"))
	assert.True(t, confirm(strings.NewReader("yes"), &out, "Delete?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "Delete?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Delete?"))
	assert.Contains(t, out.String(), "Delete? [y/N]: ")
}

func TestPrintChange(t *testing.T) {
	var out bytes.Buffer
	id := uuid.New()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	require.NoError(t, printChange(&out)(context.Background(), crud.Change{Entity: "room", Op: crud.OpCreate, ID: id, At: at}))
	assert.Equal(t, "2026-03-01 09:30:00  create  room         "+id.String()+"\n", out.String())
}

func TestWatch_UnknownBackend(t *testing.T) {
	_, _, err := run(t, "http://localhost:0", "", "watch", "--backend", "mqtt")
	assert.ErrorContains(t, err, `unknown backend "mqtt"`)
}
