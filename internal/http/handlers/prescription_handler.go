package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hospot/internal/apiclient"
	"hospot/internal/domain"
	applog "hospot/internal/log"
	"hospot/internal/submit"
	"hospot/internal/validate"
)

// medicineRows is how many medicine lines the upload form offers.
const medicineRows = 3

type PrescriptionHandler struct {
	API   *apiclient.Client
	Guard *submit.Guard
	Now   func() time.Time
}

// today is the latest prescription date the API accepts; it judges dates in UTC.
func (h *PrescriptionHandler) today() string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().UTC().Format("2006-01-02")
}

func (h *PrescriptionHandler) List(c *fiber.Ctx) error {
	data := fiber.Map{"Form": blankPrescriptionForm()}
	if c.Query("added") != "" {
		data["Notice"] = "Prescription uploaded successfully."
	}
	return h.list(c, fiber.StatusOK, data)
}

func (h *PrescriptionHandler) list(c *fiber.Ctx, status int, data fiber.Map) error {
	list, err := h.API.Prescriptions(currentUser(c).Email)
	if err != nil {
		applog.Error(c, "prescriptions.fetch", err, nil)
		if data["Alert"] == nil {
			data["Alert"] = "Could not load your prescriptions right now."
		}
	}
	data["Title"] = "My Prescriptions"
	data["Prescriptions"] = list
	data["Today"] = h.today()
	return renderStatus(c, status, "prescriptions", data)
}

type medicineLine struct {
	MedicineName, Dosage, Duration string
}

type prescriptionForm struct {
	DoctorName       string
	HospitalName     string
	PrescriptionDate string
	Notes            string
	ImageURL         string
	Medicines        []medicineLine
}

func blankPrescriptionForm() prescriptionForm {
	return prescriptionForm{Medicines: make([]medicineLine, medicineRows)}
}

func formValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

func at(xs []string, i int) string {
	if i < len(xs) {
		return xs[i]
	}
	return ""
}

func readPrescriptionForm(c *fiber.Ctx) prescriptionForm {
	f := prescriptionForm{
		DoctorName:       c.FormValue("doctor_name"),
		HospitalName:     c.FormValue("hospital_name"),
		PrescriptionDate: c.FormValue("prescription_date"),
		Notes:            c.FormValue("notes"),
		ImageURL:         c.FormValue("image_url"),
	}
	names := formValues(c, "medicine_name")
	dosages := formValues(c, "dosage")
	durations := formValues(c, "duration")
	n := max(len(names), len(dosages), len(durations), medicineRows)
	for i := 0; i < n; i++ {
		f.Medicines = append(f.Medicines, medicineLine{at(names, i), at(dosages, i), at(durations, i)})
	}
	return f
}

// lines returns the filled-in medicine rows, or ok=false if a row is half filled.
func (f prescriptionForm) lines() ([]domain.PrescriptionMedicine, bool) {
	var out []domain.PrescriptionMedicine
	for _, m := range f.Medicines {
		name, dosage, duration := strings.TrimSpace(m.MedicineName), strings.TrimSpace(m.Dosage), strings.TrimSpace(m.Duration)
		if name == "" && dosage == "" && duration == "" {
			continue
		}
		if name == "" || dosage == "" || duration == "" {
			return nil, false
		}
		out = append(out, domain.PrescriptionMedicine{MedicineName: name, Dosage: dosage, Duration: duration})
	}
	return out, true
}

func (h *PrescriptionHandler) Create(c *fiber.Ctx) error {
	f := readPrescriptionForm(c)
	errs := fiber.Map{}
	if _, ok := validate.Text(f.DoctorName, 100); !ok {
		errs["DoctorName"] = "Doctor name is required"
	}
	if _, ok := validate.Text(f.HospitalName, 120); !ok {
		errs["HospitalName"] = "Hospital name is required"
	}
	if _, err := time.Parse("2006-01-02", f.PrescriptionDate); err != nil {
		errs["PrescriptionDate"] = "Please choose the prescription date"
	}
	meds, ok := f.lines()
	if !ok {
		errs["Medicines"] = "Each medicine needs a name, dosage and duration"
	} else if len(meds) == 0 {
		errs["Medicines"] = "Add at least one medicine"
	}
	if len(errs) > 0 {
		applog.Security(c, "validation.fail", map[string]any{"form": "prescription"})
		return h.list(c, fiber.StatusBadRequest, fiber.Map{"Form": f, "Errors": errs, "Open": true})
	}

	key := guardKey(c, "prescription")
	finish, admitted := h.Guard.Begin(key)
	if !admitted {
		return h.list(c, fiber.StatusConflict, fiber.Map{
			"Form": f, "Open": true, "Alert": "Your prescription is already being uploaded.",
		})
	}
	// Back to idle once this request has rendered its outcome, even on panic.
	defer func() {
		finish(false)
		h.Guard.Settle(key)
	}()
	p, err := h.API.CreatePrescription(domain.NewPrescription{
		UserID:           currentUser(c).Email,
		DoctorName:       f.DoctorName,
		HospitalName:     f.HospitalName,
		PrescriptionDate: f.PrescriptionDate,
		Medicines:        meds,
		Notes:            f.Notes,
		ImageURL:         f.ImageURL,
	})
	finish(err == nil)
	if err != nil {
		applog.Error(c, "prescription.create.fail", err, nil)
		return h.list(c, writeStatus(err), fiber.Map{
			"Form": f, "Open": true, "Alert": "Failed to upload prescription. Please try again.",
		})
	}
	applog.Audit(c, "prescription.create", map[string]any{"prescription_id": p.ID})
	return c.Redirect("/prescriptions?added=1")
}
