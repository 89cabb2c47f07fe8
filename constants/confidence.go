package constants

// MinConfidencePercent is the cutoff below which a checked-test item is
// discarded. The instruction document tells the model to omit such items;
// sanitization enforces the same cutoff on whatever comes back.
const MinConfidencePercent = 50

// UnreadableMarker is the conventional signal the model returns when image
// quality is too poor for analysis.
const UnreadableMarker = "IMAGE_UNREADABLE"
