package views

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"citasmed/pkg/api"
	"citasmed/pkg/gateway"
)

func reservationAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		specialties: mustJSON(t, []api.Specialty{{ID: "s1", Name: "Cardio"}, {ID: "s2", Name: "Derma"}}),
		doctorList: mustJSON(t, []api.Doctor{
			{DNI: "d1", Name: "A", Specialty: []api.DoctorSpecialty{{UID: "s1"}}},
			{DNI: "d2", Name: "B", Specialty: []api.DoctorSpecialty{{UID: "s2"}}},
			{DNI: "d3", Name: "C", Specialty: []api.DoctorSpecialty{{UID: "s2"}, {UID: "s1"}}},
		}),
	}
}

// lunes 3 de marzo de 2025
var march3 = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.Local)

func loadedReservation(t *testing.T, f *fakeAPI) (*Reservation, *env) {
	t.Helper()
	e := newEnv(t, f, "12345678A")
	v := NewReservation(e.deps, MonthWindow{})
	v.Now = func() time.Time { return march3 }
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return v, e
}

func TestReservationLoadsBothLists(t *testing.T) {
	f := reservationAPI(t)
	v, _ := loadedReservation(t, f)

	if len(v.Specialties) != 2 || len(v.Doctors) != 3 {
		t.Fatalf("loaded %d specialties, %d doctors", len(v.Specialties), len(v.Doctors))
	}
	if v.LoadingSpecialties || v.LoadingDoctors {
		t.Fatal("loading flags should be cleared after Load")
	}
	if f.count("GET /api/specialty/") != 1 || f.count("GET /api/doctor/") != 1 {
		t.Fatalf("requests = %v", f.requests)
	}
}

func TestReservationFilterBySpecialtyID(t *testing.T) {
	f := reservationAPI(t)
	f.doctorList = mustJSON(t, []api.Doctor{
		{DNI: "d1", Name: "A", Specialty: []api.DoctorSpecialty{{UID: "s1"}}},
		{DNI: "d2", Name: "B", Specialty: []api.DoctorSpecialty{{UID: "s2"}}},
	})
	f.specialties = mustJSON(t, []api.Specialty{{ID: "s1", Name: "Cardio"}})
	v, _ := loadedReservation(t, f)

	if err := v.SelectSpecialty("Cardio"); err != nil {
		t.Fatalf("SelectSpecialty() failed: %v", err)
	}
	got := v.FilteredDoctors()
	if len(got) != 1 || got[0].DNI != "d1" {
		t.Fatalf("FilteredDoctors() = %+v, want only d1", got)
	}
}

func TestReservationFilterMatchesAnyPosition(t *testing.T) {
	v, _ := loadedReservation(t, reservationAPI(t))

	if err := v.SelectSpecialty("Cardio"); err != nil {
		t.Fatal(err)
	}
	var dnis []string
	for _, d := range v.FilteredDoctors() {
		dnis = append(dnis, d.DNI)
	}
	if !reflect.DeepEqual(dnis, []string{"d1", "d3"}) {
		t.Fatalf("filtered = %v, want [d1 d3]", dnis)
	}

	// cambiar de especialidad descarta un médico que ya no está en la lista
	if err := v.SelectDoctor("A"); err != nil {
		t.Fatal(err)
	}
	if err := v.SelectSpecialty("Derma"); err != nil {
		t.Fatal(err)
	}
	if v.Form().DoctorID != "" {
		t.Fatalf("doctor d1 should be cleared after switching to Derma, form = %+v", v.Form())
	}
	if err := v.SelectDoctor("A"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("SelectDoctor(A) with Derma err = %v, want ErrUnknownOption", err)
	}
	if err := v.SelectSpecialty("Neuro"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("SelectSpecialty(Neuro) err = %v", err)
	}
}

func TestReservationSubmitBody(t *testing.T) {
	f := reservationAPI(t)
	v, e := loadedReservation(t, f)

	steps := []error{
		v.SelectSpecialty("Cardio"),
		v.SelectDoctor("A"),
		v.SelectDate(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)),
		v.SelectTime("9:00"),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	v.SetReason("checkup")

	v.OpenConfirm()
	created, err := v.Confirm(context.Background())
	if err != nil {
		t.Fatalf("Confirm() failed: %v", err)
	}
	want := map[string]any{
		"reason": "checkup",
		"date":   "2025-03-10",
		"time":   "9:00",
		"doctor": "d1",
		"user":   "12345678A",
	}
	if !reflect.DeepEqual(f.lastBody, want) {
		t.Fatalf("POST body = %v, want %v", f.lastBody, want)
	}
	if created.ID != "a-1" {
		t.Errorf("created = %+v", created)
	}
	if v.ConfirmOpen() {
		t.Error("dialog should close after success")
	}
	if len(e.notes.notes) != 1 {
		t.Errorf("success notifications = %v", e.notes.notes)
	}
}

func TestReservationUserReadAtConfirm(t *testing.T) {
	f := reservationAPI(t)
	v, e := loadedReservation(t, f)
	if err := e.sessions.Save("otro-token", "87654321B"); err != nil {
		t.Fatal(err)
	}
	v.OpenConfirm()
	if _, err := v.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.lastBody["user"] != "87654321B" {
		t.Fatalf("user = %v, want the dni stored at confirm time", f.lastBody["user"])
	}
}

func TestReservationEmptyReasonIsAllowed(t *testing.T) {
	f := reservationAPI(t)
	v, _ := loadedReservation(t, f)
	v.OpenConfirm()
	if _, err := v.Confirm(context.Background()); err != nil {
		t.Fatalf("Confirm() with empty reason failed: %v", err)
	}
	if f.lastBody["reason"] != "" {
		t.Fatalf("reason = %v", f.lastBody["reason"])
	}
}

func TestReservationConfirmFailureKeepsForm(t *testing.T) {
	f := reservationAPI(t)
	f.createFail = true
	v, e := loadedReservation(t, f)
	_ = v.SelectSpecialty("Cardio")
	_ = v.SelectDoctor("A")
	_ = v.SelectTime("14:00")
	v.SetReason("dolor")
	before := v.Form()

	v.OpenConfirm()
	if _, err := v.Confirm(context.Background()); err == nil {
		t.Fatal("Confirm() should fail")
	}
	if v.Form() != before {
		t.Fatalf("form changed after failure: %+v, want %+v", v.Form(), before)
	}
	if !v.ConfirmOpen() {
		t.Error("dialog should stay open after a failure")
	}
	if len(e.notes.errors) != 1 {
		t.Errorf("error notifications = %v", e.notes.errors)
	}
}

func TestReservationConfirmRequiresDialog(t *testing.T) {
	f := reservationAPI(t)
	v, _ := loadedReservation(t, f)
	if _, err := v.Confirm(context.Background()); !errors.Is(err, ErrDialogClosed) {
		t.Fatalf("Confirm() err = %v, want ErrDialogClosed", err)
	}
	v.OpenConfirm()
	v.CancelConfirm()
	if _, err := v.Confirm(context.Background()); !errors.Is(err, ErrDialogClosed) {
		t.Fatalf("Confirm() after cancel err = %v, want ErrDialogClosed", err)
	}
	if f.count("POST /api/appointment") != 0 {
		t.Fatal("no appointment should be posted")
	}
}

func TestReservationDateAndTimeRules(t *testing.T) {
	v, _ := loadedReservation(t, reservationAPI(t))

	cases := []struct {
		date time.Time
		ok   bool
	}{
		{time.Date(2025, time.March, 3, 0, 0, 0, 0, time.Local), true},   // hoy
		{time.Date(2025, time.March, 31, 0, 0, 0, 0, time.Local), true},  // fin de mes
		{time.Date(2025, time.March, 8, 0, 0, 0, 0, time.Local), false},  // sábado
		{time.Date(2025, time.March, 9, 0, 0, 0, 0, time.Local), false},  // domingo
		{time.Date(2025, time.February, 28, 0, 0, 0, 0, time.Local), false},
		{time.Date(2025, time.April, 1, 0, 0, 0, 0, time.Local), false},
	}
	for _, c := range cases {
		err := v.SelectDate(c.date)
		if (err == nil) != c.ok {
			t.Errorf("SelectDate(%s) err = %v, want ok=%v", c.date.Format("2006-01-02"), err, c.ok)
		}
	}

	if err := v.SelectTime("9:15"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("SelectTime(9:15) err = %v", err)
	}
	if err := v.SelectTime("17:45"); err != nil {
		t.Errorf("SelectTime(17:45) failed: %v", err)
	}
}

func TestReservationPartialLoadFailure(t *testing.T) {
	f := reservationAPI(t)
	f.doctorList = []byte(`{"error":"x"}`)
	e := newEnv(t, f, "u")
	v := NewReservation(e.deps, nil)

	err := v.Load(context.Background())
	if !errors.Is(err, gateway.ErrUnexpectedShape) {
		t.Fatalf("Load() err = %v, want ErrUnexpectedShape", err)
	}
	if len(v.Specialties) != 2 {
		t.Errorf("specialties should still load, got %v", v.Specialties)
	}
	if len(e.notes.errors) != 1 {
		t.Errorf("notifications = %v, want one for doctors", e.notes.errors)
	}
}
