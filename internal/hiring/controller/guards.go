package controller

import (
	"context"

	"github.com/gartstein/hiring/internal/hiring/db"
	e "github.com/gartstein/hiring/internal/hiring/errors"
	"github.com/gartstein/hiring/internal/hiring/models"
)

// applicationGuard inspects an application read inside the current
// transaction and rejects the operation by returning an error.
type applicationGuard func(ctx context.Context, tx *db.Repository, app *models.Application) error

// ownedBy admits only the applicant who owns the application. Other
// applicants cannot tell the application exists.
func ownedBy(actor models.Actor) applicationGuard {
	return func(_ context.Context, _ *db.Repository, app *models.Application) error {
		if !actor.IsApplicant() {
			return e.Denied("only applicants can act on their applications")
		}
		if app.ApplicantID != actor.UserID {
			return e.ErrNotFound
		}
		return nil
	}
}

// employerOf admits only employers of the company owning the application's
// posting. Drafts are reported as missing, as they are on reads.
func employerOf(actor models.Actor) applicationGuard {
	return func(ctx context.Context, tx *db.Repository, app *models.Application) error {
		if !actor.IsEmployer() {
			return e.Denied("only employers can act on applications they received")
		}
		if app.Status == models.StatusDraft {
			return e.ErrNotFound
		}
		posting, err := tx.GetPosting(ctx, app.JobPostingID)
		if err != nil {
			return err
		}
		if !actor.EmployedBy(posting.CompanyID) {
			return e.Denied("application belongs to another company")
		}
		return nil
	}
}

// requireEmployer checks that the actor is an employer attached to a company.
func requireEmployer(actor models.Actor) error {
	if !actor.IsEmployer() {
		return e.Denied("only employers can manage the catalog")
	}
	if actor.Profile.CompanyID == nil {
		return e.Denied("employer is not attached to a company")
	}
	return nil
}

// requireEmployerOf checks that the actor is an employer of the given company.
func requireEmployerOf(actor models.Actor, posting *models.JobPosting) error {
	if err := requireEmployer(actor); err != nil {
		return err
	}
	if !actor.EmployedBy(posting.CompanyID) {
		return e.Denied("job posting belongs to another company")
	}
	return nil
}

// visibleTo reports whether the actor may read the application at all.
// Employers never see drafts.
func visibleTo(actor models.Actor, app *models.Application, posting *models.JobPosting) bool {
	switch {
	case actor.IsApplicant():
		return app.ApplicantID == actor.UserID
	case actor.IsEmployer():
		return actor.EmployedBy(posting.CompanyID) && app.Status != models.StatusDraft
	}
	return false
}

// scopeFor returns the listing scope of an actor.
func scopeFor(actor models.Actor) (db.ApplicationScope, error) {
	switch {
	case actor.IsApplicant():
		return db.ApplicationScope{ApplicantID: &actor.UserID}, nil
	case actor.IsEmployer() && actor.Profile.CompanyID != nil:
		return db.ApplicationScope{CompanyID: actor.Profile.CompanyID, ExcludeDraft: true}, nil
	}
	return db.ApplicationScope{}, e.Denied("employer is not attached to a company")
}
