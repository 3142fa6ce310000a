package handlers

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/postop-assist/backend/internal/storage/models"
	"github.com/postop-assist/backend/internal/storage/sqlite"
	"github.com/postop-assist/backend/pkg/logger"
)

// rutPattern accepts Chilean RUT formats like 12.345.678-9 or 12345678-K.
var rutPattern = regexp.MustCompile(`^\d{1,2}\.?\d{3}\.?\d{3}-[\dkK]$`)

type PatientHandler struct {
	db *sqlite.Client
}

func NewPatientHandler(db *sqlite.Client) *PatientHandler {
	return &PatientHandler{db: db}
}

func (h *PatientHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Nombre    string `json:"nombre"`
		Apellidos string `json:"apellidos"`
		RUT       string `json:"rut"`
		Telefono  string `json:"telefono"`
		Email     string `json:"email"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Apellidos = strings.TrimSpace(req.Apellidos)
	req.RUT = strings.TrimSpace(req.RUT)

	if req.Nombre == "" || req.Apellidos == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "nombre and apellidos are required",
		})
	}
	if !rutPattern.MatchString(req.RUT) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "rut has an invalid format",
		})
	}

	patient := &models.Patient{
		ID:        uuid.New().String(),
		Nombre:    req.Nombre,
		Apellidos: req.Apellidos,
		RUT:       req.RUT,
		Telefono:  req.Telefono,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	if err := h.db.InsertPatient(patient); err != nil {
		logger.Error("Failed to register patient", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register patient",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"patient_id": patient.ID,
	})
}
