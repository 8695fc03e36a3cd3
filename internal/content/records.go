// Package content implements the five content managers and the per-session
// workspace that composes them.
package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"io.winapps.clubconsole/internal/editor"
	"io.winapps.clubconsole/internal/store"
)

// Field names as stored in the documents.
const (
	fieldName              = "name"
	fieldDescription       = "description"
	fieldDate              = "date"
	fieldImages            = "images"
	fieldURL               = "url"
	fieldEventName         = "eventName"
	fieldEventDate         = "eventDate"
	fieldLastDayToRegister = "lastDayToRegister"
)

type Event struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Images      []string `json:"images"`
}

func (e Event) RecordID() string { return e.ID }
func (e Event) Blobs() []string  { return e.Images }

func decodeEvent(doc store.Document) Event {
	return Event{
		ID:          doc.ID,
		Name:        doc.Fields.String(fieldName),
		Description: doc.Fields.String(fieldDescription),
		Date:        doc.Fields.String(fieldDate),
		Images:      nonNil(doc.Fields.Strings(fieldImages)),
	}
}

// Image is a gallery or banner entry: one blob per document.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (i Image) RecordID() string { return i.ID }
func (i Image) Blobs() []string {
	if i.URL == "" {
		return nil
	}
	return []string{i.URL}
}

func decodeImage(doc store.Document) Image {
	return Image{ID: doc.ID, URL: doc.Fields.String(fieldURL)}
}

// Member is a directory entry created by the public sign-up flow.
type Member struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Qualification string `json:"qualification"`
	Gender        string `json:"gender"`
	Age           string `json:"age"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
	Photo         string `json:"photo"`
}

func (m Member) RecordID() string { return m.ID }

// Blobs is empty: the photo is owned by the sign-up flow.
func (m Member) Blobs() []string { return nil }

// searchable is every value of the record, the document ID and photo URL
// included.
func (m Member) searchable() []string {
	return []string{m.ID, m.Name, m.Qualification, m.Gender, m.Age, m.Email, m.PhoneNumber, m.Address, m.Photo}
}

func decodeMember(doc store.Document) Member {
	f := doc.Fields
	return Member{
		ID:            doc.ID,
		Name:          f.String("name"),
		Qualification: f.String("qualification"),
		Gender:        f.String("gender"),
		Age:           f.String("age"),
		Email:         f.String("email"),
		PhoneNumber:   f.String("phoneNumber"),
		Address:       f.String("address"),
		Photo:         f.String("photo"),
	}
}

type FormLink struct {
	ID                string `json:"id"`
	EventName         string `json:"eventName" validate:"required"`
	URL               string `json:"url" validate:"required,url"`
	EventDate         string `json:"eventDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LastDayToRegister string `json:"lastDayToRegister,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (l FormLink) RecordID() string { return l.ID }
func (l FormLink) Blobs() []string  { return nil }

func (l FormLink) searchable() []string {
	return []string{l.ID, l.EventName, l.URL, l.EventDate, l.LastDayToRegister}
}

func (l FormLink) fields() store.Fields {
	return store.Fields{
		fieldURL:               l.URL,
		fieldEventName:         l.EventName,
		fieldEventDate:         l.EventDate,
		fieldLastDayToRegister: l.LastDayToRegister,
	}
}

func (l FormLink) trimmed() FormLink {
	l.EventName = strings.TrimSpace(l.EventName)
	l.URL = strings.TrimSpace(l.URL)
	l.EventDate = strings.TrimSpace(l.EventDate)
	l.LastDayToRegister = strings.TrimSpace(l.LastDayToRegister)
	return l
}

func decodeFormLink(doc store.Document) FormLink {
	return FormLink{
		ID:                doc.ID,
		EventName:         doc.Fields.String(fieldEventName),
		URL:               doc.Fields.String(fieldURL),
		EventDate:         doc.Fields.String(fieldEventDate),
		LastDayToRegister: doc.Fields.String(fieldLastDayToRegister),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRecord checks a record's struct tags and reports every failing
// field as one ErrValidation.
func validateRecord(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", editor.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "datetime":
			msgs = append(msgs, fe.Field()+" must be a YYYY-MM-DD date")
		case "url":
			msgs = append(msgs, fe.Field()+" must be an absolute URL")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", editor.ErrValidation, strings.Join(msgs, "; "))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
