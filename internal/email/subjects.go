package email

const (
	subjectLeadAlertFmt      = "New lead captured by %s"
	subjectTrainingFailedFmt = "Training failed for %s"
)
