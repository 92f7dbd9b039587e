package service

import (
	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"
)

// scopeFor derives the visibility scope of a requester: their own records,
// plus company-shared records when they belong to one.
func scopeFor(requester *models.User) repository.OwnerScope {
	return repository.OwnerScope{
		UserID:    requester.ID,
		CompanyID: requester.CompanyID,
	}
}

// authorized reports whether the requester may access a resource owned by
// (ownerID, companyID). Access is granted to the owning user, or to any
// member of the owning company. Callers must check existence first:
// not-found and forbidden are distinct outcomes.
func authorized(requester *models.User, ownerID uint, companyID *uint) bool {
	if requester.ID == ownerID {
		return true
	}
	if requester.CompanyID != nil && companyID != nil && *requester.CompanyID == *companyID {
		return true
	}
	return false
}
