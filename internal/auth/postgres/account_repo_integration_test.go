// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

//go:build integration

package postgres_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/auth/postgres"
)

var _ = Describe("AccountRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.AccountRepository
		now  time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = postgres.NewAccountRepository(testPool)
		now = time.Now().UTC().Truncate(time.Microsecond)
		_, err := testPool.Exec(ctx, `DELETE FROM accounts`)
		Expect(err).NotTo(HaveOccurred())
	})

	newAccount := func(email string) *auth.Account {
		a, err := auth.NewAccount(email, "Ada", "$2a$10$hash", now)
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	It("round-trips an inserted account", func() {
		a := newAccount("ada@example.com")
		Expect(repo.Insert(ctx, a)).To(Succeed())

		byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(a.ID))
		Expect(byEmail.Verified).To(BeFalse())
		Expect(byEmail.CreatedAt).To(BeTemporally("==", a.CreatedAt))

		byID, err := repo.FindByID(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.Email).To(Equal("ada@example.com"))
	})

	It("rejects a second account with the same email", func() {
		Expect(repo.Insert(ctx, newAccount("dup@example.com"))).To(Succeed())

		err := repo.Insert(ctx, newAccount("dup@example.com"))
		Expect(err).To(MatchError(auth.ErrDuplicateAccount))
	})

	It("reports misses as account not found", func() {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		Expect(err).To(MatchError(auth.ErrAccountNotFound))
	})

	It("finds accounts by live verification code only", func() {
		a := newAccount("code@example.com")
		digest := auth.HashSecret("042137")
		Expect(a.StartVerification(digest, now.Add(time.Hour), now)).To(Succeed())
		Expect(repo.Insert(ctx, a)).To(Succeed())

		found, err := repo.FindByVerificationCode(ctx, digest, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(a.ID))

		_, err = repo.FindByVerificationCode(ctx, digest, now.Add(2*time.Hour))
		Expect(err).To(MatchError(auth.ErrAccountNotFound))
	})

	It("consumes verification codes once", func() {
		a := newAccount("verify@example.com")
		digest := auth.HashSecret("314159")
		Expect(a.StartVerification(digest, now.Add(time.Hour), now)).To(Succeed())
		Expect(repo.Insert(ctx, a)).To(Succeed())

		Expect(repo.ConsumeVerificationCode(ctx, a.ID, digest, now)).To(Succeed())
		Expect(repo.ConsumeVerificationCode(ctx, a.ID, digest, now)).To(MatchError(auth.ErrAccountNotFound))

		found, err := repo.FindByID(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.Verified).To(BeTrue())
		Expect(found.VerificationCodeHash).To(BeNil())

		err = repo.SetVerificationCode(ctx, a.ID, digest, now.Add(time.Hour), now)
		Expect(err).To(MatchError(auth.ErrAccountNotFound))
	})

	It("consumes reset tokens once", func() {
		a := newAccount("reset@example.com")
		Expect(repo.Insert(ctx, a)).To(Succeed())

		token := auth.HashSecret("reset-token")
		Expect(repo.SetResetToken(ctx, a.ID, token, now.Add(time.Hour), now)).To(Succeed())

		found, err := repo.FindByResetToken(ctx, token, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(a.ID))

		Expect(repo.ConsumeResetToken(ctx, a.ID, token, "$2a$10$other", now)).To(Succeed())
		err = repo.ConsumeResetToken(ctx, a.ID, token, "$2a$10$third", now)
		Expect(err).To(MatchError(auth.ErrAccountNotFound))

		found, err = repo.FindByID(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.PasswordHash).To(Equal("$2a$10$other"))
		Expect(found.ResetTokenHash).To(BeNil())
	})

	It("rejects a login recorded against a replaced password hash", func() {
		a := newAccount("login@example.com")
		Expect(repo.Insert(ctx, a)).To(Succeed())
		stale := a.PasswordHash

		Expect(repo.RecordLogin(ctx, a.ID, stale, "$2a$10$fresh", now)).To(Succeed())
		Expect(repo.RecordLogin(ctx, a.ID, stale, stale, now)).To(MatchError(auth.ErrAccountNotFound))

		found, err := repo.FindByID(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(found.PasswordHash).To(Equal("$2a$10$fresh"))
		Expect(found.LastLoginAt).NotTo(BeNil())
	})

	It("reports writes to unknown accounts as not found", func() {
		err := repo.SetResetToken(ctx, newAccount("ghost@example.com").ID, "h", now, now)
		Expect(err).To(MatchError(auth.ErrAccountNotFound))
	})
})
