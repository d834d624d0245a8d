package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/claracare/api/internal/config"
	"github.com/claracare/api/internal/domain/escalation"
	"github.com/claracare/api/internal/domain/medical"
	"github.com/claracare/api/internal/domain/patient"
	"github.com/claracare/api/internal/domain/triage"
	"github.com/claracare/api/internal/platform/auth"
	"github.com/claracare/api/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample clinical data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			// One transaction for the whole seed so a failure
			// leaves the database untouched.
			txCtx, tx, err := db.WithPoolTx(ctx, pool)
			if err != nil {
				return err
			}
			if err := runSeed(txCtx, pool); err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
			return tx.Commit(ctx)
		},
	}
}

func strPtr(s string) *string        { return &s }
func f64Ptr(f float64) *float64      { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	patientRepo := patient.NewRepoPG(pool)
	childRepo := patient.NewChildRepoPG(pool)
	patientSvc := patient.NewService(patientRepo, childRepo)
	medicalSvc := medical.NewService(
		medical.NewMedicationRepoPG(pool),
		medical.NewAllergyRepoPG(pool),
		medical.NewProblemRepoPG(pool),
	)
	triageSvc := triage.NewService(
		triage.NewInteractionRepoPG(pool),
		triage.NewReviewRepoPG(pool),
		childRepo, patientRepo,
	)
	escalationSvc := escalation.NewService(
		escalation.NewRepoPG(pool),
		escalation.NewMessageRepoPG(pool),
		triageSvc,
	)

	// Parents
	maria := &patient.Patient{
		Name:              "Maria Garcia",
		Email:             "maria.garcia@example.com",
		Phone:             "555-0101",
		PreferredPharmacy: strPtr("Walgreens on 5th Ave"),
	}
	james := &patient.Patient{
		Name:  "James Chen",
		Email: "james.chen@example.com",
		Phone: "555-0102",
	}
	aisha := &patient.Patient{
		Name:              "Aisha Okafor",
		Email:             "aisha.okafor@example.com",
		Phone:             "555-0103",
		PreferredPharmacy: strPtr("CVS Main Street"),
	}
	for _, p := range []*patient.Patient{maria, james, aisha} {
		if err := patientSvc.CreatePatient(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.Name, err)
		}
	}

	// Children
	sofia := &patient.Child{
		PatientID:           maria.ID,
		Name:                "Sofia Garcia",
		DateOfBirth:         patient.NewDate(2021, time.March, 14),
		MedicalRecordNumber: "MRN-001234",
		CurrentWeight:       f64Ptr(16.2),
	}
	diego := &patient.Child{
		PatientID:           maria.ID,
		Name:                "Diego Garcia",
		DateOfBirth:         patient.NewDate(2018, time.July, 2),
		MedicalRecordNumber: "MRN-001235",
		CurrentWeight:       f64Ptr(24.8),
	}
	lily := &patient.Child{
		PatientID:           james.ID,
		Name:                "Lily Chen",
		DateOfBirth:         patient.NewDate(2023, time.November, 20),
		MedicalRecordNumber: "MRN-001236",
		CurrentWeight:       f64Ptr(11.4),
	}
	kwame := &patient.Child{
		PatientID:           aisha.ID,
		Name:                "Kwame Okafor",
		DateOfBirth:         patient.NewDate(2019, time.January, 8),
		MedicalRecordNumber: "MRN-001237",
		CurrentWeight:       f64Ptr(21.5),
	}
	for _, c := range []*patient.Child{sofia, diego, lily, kwame} {
		if err := patientSvc.CreateChild(ctx, c); err != nil {
			return fmt.Errorf("seed child %s: %w", c.Name, err)
		}
	}

	// Medical history
	meds := []*medical.Medication{
		{ChildID: diego.ID, Name: "Albuterol HFA", Dosage: "90 mcg, 2 puffs", Frequency: "every 4-6 hours as needed", StartDate: timePtr(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)), IsActive: true},
		{ChildID: diego.ID, Name: "Fluticasone", Dosage: "44 mcg, 1 puff", Frequency: "twice daily", StartDate: timePtr(time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)), IsActive: true},
		{ChildID: sofia.ID, Name: "Amoxicillin", Dosage: "250 mg/5 mL, 5 mL", Frequency: "three times daily", StartDate: timePtr(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)), EndDate: timePtr(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)), IsActive: false},
		{ChildID: kwame.ID, Name: "Cetirizine", Dosage: "5 mg", Frequency: "once daily", IsActive: true},
	}
	for _, m := range meds {
		if err := medicalSvc.CreateMedication(ctx, m); err != nil {
			return fmt.Errorf("seed medication %s: %w", m.Name, err)
		}
	}

	allergies := []*medical.Allergy{
		{ChildID: sofia.ID, Allergen: "Penicillin", Reaction: "Hives", Severity: strPtr("moderate")},
		{ChildID: kwame.ID, Allergen: "Peanuts", Reaction: "Anaphylaxis", Severity: strPtr("severe")},
		{ChildID: kwame.ID, Allergen: "Dust mites", Reaction: "Rhinitis, sneezing", Severity: strPtr("mild")},
	}
	for _, a := range allergies {
		if err := medicalSvc.CreateAllergy(ctx, a); err != nil {
			return fmt.Errorf("seed allergy %s: %w", a.Allergen, err)
		}
	}

	problems := []*medical.ProblemListItem{
		{ChildID: diego.ID, ConditionName: "Mild persistent asthma", DiagnosticCode: strPtr("J45.30"), Status: "chronic", OnsetDate: timePtr(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))},
		{ChildID: sofia.ID, ConditionName: "Acute otitis media, right ear", DiagnosticCode: strPtr("H66.91"), Status: "resolved", OnsetDate: timePtr(time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC))},
		{ChildID: kwame.ID, ConditionName: "Allergic rhinitis", DiagnosticCode: strPtr("J30.1"), Status: "active"},
	}
	for _, p := range problems {
		if err := medicalSvc.CreateProblem(ctx, p); err != nil {
			return fmt.Errorf("seed problem %s: %w", p.ConditionName, err)
		}
	}

	// AI triage interactions
	feverInteraction := &triage.Interaction{
		ChildID:       sofia.ID,
		PatientID:     maria.ID,
		ParentConcern: "Sofia has had a fever of 102.5F since last night and is refusing to eat. She keeps pulling at her right ear.",
		AIResponse:    "A fever with ear pulling in a toddler often points to an ear infection. Give acetaminophen 160 mg (5 mL of children's liquid) for the fever and offer plenty of fluids. If the fever lasts more than 48 hours or she becomes lethargic, she should be seen today.",
		ClinicalSummary: strPtr("3yo F with fever 102.5F x18h, otalgia (ear pulling), decreased PO intake. Hx of recent resolved right AOM. Concern for recurrent otitis media."),
		Urgency:         triage.UrgencyModerate,
		Recommendations: strPtr("Antipyretics, hydration, clinical exam within 24h to evaluate for recurrent AOM."),
	}
	wheezingInteraction := &triage.Interaction{
		ChildID:       diego.ID,
		PatientID:     maria.ID,
		ParentConcern: "Diego is wheezing again after soccer practice and his inhaler doesn't seem to be helping as much as usual.",
		AIResponse:    "Since Diego's rescue inhaler is giving less relief than usual, this could be a flare of his asthma that needs medical attention. Give 2 more puffs with the spacer and watch his breathing closely. If he is working hard to breathe, can't speak in full sentences, or his lips look bluish, call 911 immediately.",
		ClinicalSummary: strPtr("7yo M with known mild persistent asthma, exercise-triggered wheezing with reduced bronchodilator response. Possible acute exacerbation."),
		Urgency:         triage.UrgencyUrgent,
		Recommendations: strPtr("Repeat SABA with spacer, urgent provider review. Escalate to ED if respiratory distress."),
	}
	rashInteraction := &triage.Interaction{
		ChildID:       lily.ID,
		PatientID:     james.ID,
		ParentConcern: "Lily has small red bumps on her cheeks and chin for about a week. They don't seem to bother her.",
		AIResponse:    "Small red bumps on the cheeks in an infant that don't cause discomfort are commonly baby acne or mild eczema. Keep the area clean with plain water, avoid scented products, and apply a thin layer of fragrance-free moisturizer. Mention it at her next well-child visit.",
		ClinicalSummary: strPtr("18mo F with week-old asymptomatic facial papular rash. Likely benign (infantile acne vs mild eczema)."),
		Urgency:         triage.UrgencyRoutine,
		Recommendations: strPtr("Gentle skin care, routine follow-up."),
	}
	peanutInteraction := &triage.Interaction{
		ChildID:       kwame.ID,
		PatientID:     aisha.ID,
		ParentConcern: "Kwame may have eaten a cookie with peanuts at a birthday party. His lips look a little puffy and he says his mouth feels funny.",
		AIResponse:    "Lip swelling and mouth tingling after possible peanut exposure in a child with a known peanut allergy can be the start of a serious allergic reaction. Use his epinephrine auto-injector now if you have it and call 911. Do not wait to see if symptoms improve on their own.",
		ClinicalSummary: strPtr("6yo M with known peanut anaphylaxis, possible exposure, early oropharyngeal symptoms (lip edema, oral paresthesia). High risk for progression."),
		Urgency:         triage.UrgencyCritical,
		Recommendations: strPtr("Immediate epinephrine, EMS activation, ED evaluation."),
	}
	for _, in := range []*triage.Interaction{feverInteraction, wheezingInteraction, rashInteraction, peanutInteraction} {
		if err := triageSvc.CreateInteraction(ctx, in); err != nil {
			return fmt.Errorf("seed interaction for child %s: %w", in.ChildID, err)
		}
	}

	// Provider reviews. The fever interaction is left unreviewed so the
	// dashboard shows a pending queue out of the box.
	reviews := []*triage.Review{
		{
			InteractionID:  rashInteraction.ID,
			ProviderName:   auth.DevProviderName,
			ReviewDecision: triage.DecisionAgree,
			ProviderNotes:  strPtr("Classic benign infantile rash. AI guidance appropriate."),
		},
		{
			InteractionID:  wheezingInteraction.ID,
			ProviderName:   auth.DevProviderName,
			ReviewDecision: triage.DecisionAgreeWithThoughts,
			ProviderNotes:  strPtr("Agree with escalation threshold. Would also start oral steroids if no response to second SABA dose. Family contacted."),
			ICD10Code:      strPtr("J45.901"),
		},
		{
			InteractionID:  peanutInteraction.ID,
			ProviderName:   auth.DevProviderName,
			ReviewDecision: triage.DecisionNeedsEscalation,
			ProviderNotes:  strPtr("Known anaphylaxis history with active symptoms. Initiating direct follow-up to confirm epinephrine given and EMS en route."),
			ICD10Code:      strPtr("T78.01XA"),
		},
	}
	for _, rv := range reviews {
		if err := triageSvc.CreateReview(ctx, rv); err != nil {
			return fmt.Errorf("seed review for interaction %s: %w", rv.InteractionID, err)
		}
	}

	// Escalation thread for the anaphylaxis case
	esc := &escalation.Escalation{
		InteractionID: peanutInteraction.ID,
		InitiatedBy:   auth.DevProviderID,
		Status:        escalation.StatusPhoneCall,
		Severity:      triage.UrgencyCritical,
		Reason:        strPtr("Possible anaphylaxis in progress, confirming epinephrine administration"),
	}
	if err := escalationSvc.CreateEscalation(ctx, esc); err != nil {
		return fmt.Errorf("seed escalation: %w", err)
	}

	messages := []*escalation.Message{
		{
			EscalationID: esc.ID,
			SenderID:     auth.DevProviderID,
			SenderType:   escalation.SenderProvider,
			Content:      "This is Dr. House from the clinic. I saw Kwame's triage report. Have you given the EpiPen yet?",
		},
		{
			EscalationID: esc.ID,
			SenderID:     aisha.ID.String(),
			SenderType:   escalation.SenderParent,
			Content:      "Yes, I used it right away and the ambulance just arrived. His lips look better already.",
		},
		{
			EscalationID: esc.ID,
			SenderID:     auth.DevProviderID,
			SenderType:   escalation.SenderProvider,
			Content:      "Good. He still needs ED observation even if symptoms improve. I'll call ahead so they expect him.",
		},
	}
	for _, m := range messages {
		if err := escalationSvc.CreateMessage(ctx, m); err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}

	fmt.Println("Seed data created:")
	fmt.Printf("  3 patients, 4 children, %d medications, %d allergies, %d problems\n", len(meds), len(allergies), len(problems))
	fmt.Printf("  4 interactions (1 pending review), %d reviews, 1 escalation, %d messages\n", len(reviews), len(messages))
	return nil
}
