package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
)

var (
	ErrInvalidFirstName = errors.New("first name must be non-empty and contain no spaces")
	ErrInvalidBirthDate = errors.New("invalid birth date")
	ErrTooYoung         = errors.New("user must be at least 13 years old")
	ErrInvalidGender    = errors.New("invalid gender")
)

// Service читает и пишет профиль в key-value хранилище
type Service struct {
	kv  storage.KeyValueStorage
	now func() time.Time
}

// NewService создаёт новый сервис
func NewService(kv storage.KeyValueStorage) *Service {
	return &Service{kv: kv, now: time.Now}
}

// Get возвращает профиль; отсутствующие ключи дают нулевые значения
func (s *Service) Get(ctx context.Context) (*UserProfile, error) {
	p := &UserProfile{}

	fields := []struct {
		key string
		dst *string
	}{
		{KeyFirstName, &p.FirstName},
		{KeyGender, &p.Gender},
		{KeyEthnicity, &p.Ethnicity},
		{KeyChronicDiseases, &p.ChronicDiseases},
	}
	for _, f := range fields {
		v, _, err := s.kv.Get(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = v
	}

	raw, ok, err := s.kv.Get(ctx, KeyBirthDate)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyBirthDate, err)
	}
	if ok && raw != "" {
		birth, err := time.Parse(BirthDateLayout, raw)
		if err != nil {
			log.Printf("WARN profiles: ignoring malformed %s %q", KeyBirthDate, raw)
		} else {
			p.BirthDate = &birth
		}
	}

	raw, ok, err = s.kv.Get(ctx, KeySetupComplete)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeySetupComplete, err)
	}
	if ok {
		p.SetupComplete, _ = strconv.ParseBool(raw)
	}

	return p, nil
}

// CompleteOnboarding валидирует анкету, сохраняет все ключи и ставит флаг завершения
func (s *Service) CompleteOnboarding(ctx context.Context, req OnboardingRequest) (*UserProfile, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" || strings.ContainsAny(firstName, " \t") {
		return nil, ErrInvalidFirstName
	}

	birth, err := time.Parse(BirthDateLayout, strings.TrimSpace(req.BirthDate))
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	if Age(birth, s.now()) < MinAge {
		return nil, ErrTooYoung
	}

	gender := strings.TrimSpace(req.Gender)
	if !slices.Contains(Genders, gender) {
		return nil, ErrInvalidGender
	}

	// этничность и хронические болезни: свободный текст (вариант "Other")
	p := &UserProfile{
		FirstName:       firstName,
		BirthDate:       &birth,
		Gender:          gender,
		Ethnicity:       strings.TrimSpace(req.Ethnicity),
		ChronicDiseases: strings.TrimSpace(req.ChronicDiseases),
		SetupComplete:   true,
	}

	err = s.kv.SetMany(ctx, map[string]string{
		KeyFirstName:       p.FirstName,
		KeyBirthDate:       birth.Format(BirthDateLayout),
		KeyGender:          p.Gender,
		KeyEthnicity:       p.Ethnicity,
		KeyChronicDiseases: p.ChronicDiseases,
		KeySetupComplete:   "true",
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) toDTO(p *UserProfile) ProfileDTO {
	dto := ProfileDTO{
		FirstName:       p.FirstName,
		Gender:          p.Gender,
		Ethnicity:       p.Ethnicity,
		ChronicDiseases: p.ChronicDiseases,
		SetupComplete:   p.SetupComplete,
	}
	if p.BirthDate != nil {
		date := p.BirthDate.Format(BirthDateLayout)
		age := Age(*p.BirthDate, s.now())
		dto.BirthDate = &date
		dto.Age = &age
	}
	return dto
}
