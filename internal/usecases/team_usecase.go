package usecases

import (
	"context"
	"errors"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	domainerrors "github.com/Dorstol/BitBuddies/internal/domain/errors"
	"github.com/Dorstol/BitBuddies/internal/domain/repositories"
	"github.com/Dorstol/BitBuddies/pkg/utils"
)

// TeamUsecase handles the team lifecycle. Every mutation runs inside a
// unit of work so membership checks and the writes they guard commit
// against the same snapshot.
type TeamUsecase struct {
	teamRepo repositories.TeamRepository
	uow      repositories.UnitOfWork
}

// NewTeamUsecase creates a new team usecase
func NewTeamUsecase(teamRepo repositories.TeamRepository, uow repositories.UnitOfWork) *TeamUsecase {
	return &TeamUsecase{
		teamRepo: teamRepo,
		uow:      uow,
	}
}

// CreateTeam creates a team owned by ownerID, who becomes its first
// member. A user may own at most one team that has not reached Ready.
func (u *TeamUsecase) CreateTeam(ctx context.Context, ownerID uint, input *entities.CreateTeamInput) (*entities.Team, error) {
	var teamID uint
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		active, err := u.teamRepo.CountOwnedActive(txCtx, ownerID)
		if err != nil {
			return err
		}
		if active > 0 {
			return domainerrors.PermissionDenied(domainerrors.CodeCannotCreateTeam, "you already own a team that is not completed")
		}

		team := &entities.Team{
			Title:       input.Title,
			ProjectName: input.ProjectName,
			Description: input.Description,
			Status:      entities.StatusInitiation,
			OwnerID:     ownerID,
		}
		if err := u.teamRepo.Create(txCtx, team); err != nil {
			// a concurrent create by the same owner loses on the
			// active-owner unique index rather than the count above
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.PermissionDenied(domainerrors.CodeCannotCreateTeam, "you already own a team that is not completed")
			}
			return err
		}
		if err := u.teamRepo.AddMember(txCtx, team.ID, ownerID); err != nil {
			return err
		}
		teamID = team.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.GetTeam(ctx, teamID)
}

// GetTeam loads a team with its members.
func (u *TeamUsecase) GetTeam(ctx context.Context, teamID uint) (*entities.Team, error) {
	team, err := u.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
		}
		return nil, err
	}
	return team, nil
}

// ListTeams lists teams matching the filter.
func (u *TeamUsecase) ListTeams(ctx context.Context, filter entities.TeamFilter, p utils.PaginationParams) ([]*entities.Team, int64, error) {
	return u.teamRepo.List(ctx, filter, p)
}

// UpdateTeam applies a partial update. Only the owner may update, and
// only fields present in the input are touched. Status transitions are
// deliberately unconstrained.
func (u *TeamUsecase) UpdateTeam(ctx context.Context, teamID, userID uint, input *entities.UpdateTeamInput) (*entities.Team, error) {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByID(txCtx, teamID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
			}
			return err
		}
		if !team.IsOwner(userID) {
			return domainerrors.PermissionDenied(domainerrors.CodeNotOwner, "only the owner can update the team")
		}

		if input.Title.Valid {
			team.Title = input.Title.String
		}
		if input.ProjectName.Valid {
			team.ProjectName = input.ProjectName.String
		}
		if input.Description.Valid {
			team.Description = input.Description.String
		}
		if input.Status.Valid {
			status := entities.TeamStatus(input.Status.String)
			if !entities.ValidTeamStatus(status) {
				return domainerrors.BadRequest("unknown team status")
			}
			team.Status = status
		}

		return u.teamRepo.Update(txCtx, team)
	})
	if err != nil {
		return nil, err
	}
	return u.GetTeam(ctx, teamID)
}

// DeleteTeam deletes a team and its membership rows. Owner only.
func (u *TeamUsecase) DeleteTeam(ctx context.Context, teamID, userID uint) error {
	return u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByID(txCtx, teamID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
			}
			return err
		}
		if !team.IsOwner(userID) {
			return domainerrors.PermissionDenied(domainerrors.CodeNotOwner, "only the owner can delete the team")
		}
		return u.teamRepo.Delete(txCtx, teamID)
	})
}

// JoinTeam adds userID to the team. Capacity is checked before
// duplicate membership, both against the locked team row, so two
// concurrent joins cannot both pass the capacity check.
func (u *TeamUsecase) JoinTeam(ctx context.Context, teamID, userID uint) (*entities.Team, error) {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByIDForUpdate(txCtx, teamID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
			}
			return err
		}
		if !team.HasCapacity() {
			return domainerrors.CapacityExceeded(domainerrors.CodeMaxMembers, "team is full")
		}
		if team.IsMember(userID) {
			return domainerrors.Conflict(domainerrors.CodeAlreadyInTeam, "already a member of this team")
		}
		if err := u.teamRepo.AddMember(txCtx, teamID, userID); err != nil {
			if errors.Is(err, domainerrors.ErrAlreadyExists) {
				return domainerrors.Conflict(domainerrors.CodeAlreadyInTeam, "already a member of this team")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.GetTeam(ctx, teamID)
}

// LeaveTeam removes userID from the team. The owner can never leave.
func (u *TeamUsecase) LeaveTeam(ctx context.Context, teamID, userID uint) (*entities.Team, error) {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByIDForUpdate(txCtx, teamID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
			}
			return err
		}
		if team.IsOwner(userID) {
			return domainerrors.InvalidOperation(domainerrors.CodeOwnerCannotLeave, "the owner cannot leave the team")
		}
		if !team.IsMember(userID) {
			return domainerrors.InvalidOperation(domainerrors.CodeNotTeamMember, "not a member of this team")
		}
		return u.teamRepo.RemoveMember(txCtx, teamID, userID)
	})
	if err != nil {
		return nil, err
	}
	return u.GetTeam(ctx, teamID)
}

// RemoveMember removes targetID from the team on behalf of requesterID.
// Removing the owner is refused before the requester check, so even the
// owner cannot remove themselves.
func (u *TeamUsecase) RemoveMember(ctx context.Context, teamID, requesterID, targetID uint) (*entities.Team, error) {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByIDForUpdate(txCtx, teamID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound(domainerrors.CodeTeamNotFound, "team not found")
			}
			return err
		}
		if team.IsOwner(targetID) {
			return domainerrors.InvalidOperation(domainerrors.CodeOwnerCannotLeave, "the owner cannot be removed from the team")
		}
		if !team.IsOwner(requesterID) {
			return domainerrors.PermissionDenied(domainerrors.CodeNotOwner, "only the owner can remove members")
		}
		if !team.IsMember(targetID) {
			return domainerrors.InvalidOperation(domainerrors.CodeNotTeamMember, "user is not a member of this team")
		}
		return u.teamRepo.RemoveMember(txCtx, teamID, targetID)
	})
	if err != nil {
		return nil, err
	}
	return u.GetTeam(ctx, teamID)
}
