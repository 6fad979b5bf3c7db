package http

import (
	"net/http"
	"strconv"

	applog "ricevute/internal/log"
)

type settingsFormData struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string
	Currency        string
	TaxRate         string
	Signature       string
	ShowLogo        bool
}

// handleSettingsForm renders the business settings screen.
func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Load settings failed", applog.FieldError, err)
		InternalServerError("Could not load settings").Write(w)
		return
	}

	data := settingsFormData{
		BusinessName:    settings.BusinessName,
		BusinessAddress: settings.BusinessAddress,
		BusinessPhone:   settings.BusinessPhone,
		BusinessEmail:   settings.BusinessEmail,
		Currency:        settings.DefaultCurrency,
		TaxRate:         strconv.FormatFloat(settings.DefaultTaxRate, 'f', -1, 64),
		Signature:       settings.Signature,
		ShowLogo:        settings.ShowLogo,
	}

	if err := s.templates.ExecuteTemplate(w, "settings.html", data); err != nil {
		logger.ErrorContext(ctx, "Settings template execution failed", applog.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSaveSettings persists the business settings singleton.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	settings := ParseSettingsForm(r.Form)
	if settings.DefaultCurrency == "" {
		UnprocessableEntityError("Currency is required").Write(w)
		return
	}

	if err := s.store.SaveSettings(ctx, settings); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Save settings failed", applog.FieldError, err)
		InternalServerError("Could not save settings").Write(w)
		return
	}

	// New defaults change formatted totals on the analytics screen.
	s.analyticsCache.Purge()

	NewHTMXResponse().
		TriggerSettingsSaved().
		TriggerSuccessNotification("Settings saved").
		BodyHTML(`<div class="success">Settings saved</div>`).
		Write(w)
}
