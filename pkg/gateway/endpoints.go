package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"citasmed/pkg/api"
)

// Login envía las credenciales. Un 2xx sin token NO es un error de
// transporte: el llamador debe comprobar Token.
func (c *Client) Login(ctx context.Context, dni, password string) (api.LoginResponse, error) {
	raw, err := c.Do(ctx, http.MethodPost, api.PathLogin, api.LoginRequest{DNI: dni, Password: password}, "")
	if err != nil {
		return api.LoginResponse{}, err
	}
	return decodeObject[api.LoginResponse](raw)
}

func (c *Client) Register(ctx context.Context, reg api.Registration) error {
	_, err := c.Do(ctx, http.MethodPost, api.PathUsers, reg, "")
	return err
}

func (c *Client) GetUser(ctx context.Context, token, dni string) (api.UserProfile, error) {
	raw, err := c.Do(ctx, http.MethodGet, api.UserPath(dni), nil, token)
	if err != nil {
		return api.UserProfile{}, err
	}
	return decodeObject[api.UserProfile](raw)
}

// UpdateUser reemplaza el perfil completo y devuelve la copia del servidor.
func (c *Client) UpdateUser(ctx context.Context, token, dni string, p api.UserProfile) (api.UserProfile, error) {
	raw, err := c.Do(ctx, http.MethodPut, api.UserPath(dni), p, token)
	if err != nil {
		return api.UserProfile{}, err
	}
	return decodeObject[api.UserProfile](raw)
}

// Appointments devuelve el cuerpo sin decodificar; la vista decide qué
// hacer si no es un array.
func (c *Client) Appointments(ctx context.Context, token, dni string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, api.AppointmentsPath(dni), nil, token)
}

func (c *Client) CreateAppointment(ctx context.Context, token string, a api.Appointment) (api.Appointment, error) {
	raw, err := c.Do(ctx, http.MethodPost, api.PathAppointment, a, token)
	if err != nil {
		return api.Appointment{}, err
	}
	return decodeObject[api.Appointment](raw)
}

func (c *Client) Doctor(ctx context.Context, token, dni string) (api.Doctor, error) {
	raw, err := c.Do(ctx, http.MethodGet, api.DoctorPath(dni), nil, token)
	if err != nil {
		return api.Doctor{}, err
	}
	return decodeObject[api.Doctor](raw)
}

func (c *Client) Doctors(ctx context.Context, token string) ([]api.Doctor, error) {
	raw, err := c.Do(ctx, http.MethodGet, api.PathDoctors, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeArray[api.Doctor](raw)
}

func (c *Client) Specialties(ctx context.Context, token string) ([]api.Specialty, error) {
	raw, err := c.Do(ctx, http.MethodGet, api.PathSpecialties, nil, token)
	if err != nil {
		return nil, err
	}
	return decodeArray[api.Specialty](raw)
}
