// Package vision classifies single perception frames. All functions are
// pure and fail closed: incomplete landmark data never flags a behavior.
package vision

import (
	"math"

	"aicoach-go/internal/models"
)

// Landmark indices from the perception provider's face and pose meshes.
const (
	faceLandmarkCount = 468
	noseTipIdx        = 1
	leftEyeOuterIdx   = 33
	rightEyeOuterIdx  = 263

	poseLandmarkCount = 33
	poseNoseIdx       = 0
	leftShoulderIdx   = 11
	rightShoulderIdx  = 12
)

// Empirically tuned thresholds. Documented upstream; do not re-derive.
const (
	noseCenterMin   = 0.4
	noseCenterMax   = 0.6
	noseDepthMax    = 0.1
	shoulderTiltMax = 0.05
	headOffsetMax   = 0.08
	forwardLeanMax  = 0.1
)

// IsFacingForward reports whether the face mesh indicates the subject is
// looking at the camera. The nose must sit centered between the outer eye
// corners and close to the camera plane.
func IsFacingForward(face []models.Landmark) bool {
	if len(face) < faceLandmarkCount {
		return false
	}

	nose := face[noseTipIdx]
	leftEye := face[leftEyeOuterIdx]
	rightEye := face[rightEyeOuterIdx]

	eyeSpan := math.Abs(leftEye.X - rightEye.X)
	if eyeSpan == 0 {
		// Degenerate geometry, cannot judge orientation.
		return false
	}

	noseRelativeX := (nose.X - leftEye.X) / eyeSpan
	centered := noseRelativeX > noseCenterMin && noseRelativeX < noseCenterMax
	closeToCamera := math.Abs(nose.Z) < noseDepthMax

	return centered && closeToCamera
}

// IsBadPosture reports whether the pose mesh indicates slouching, tilted
// shoulders, or a laterally offset head. Any one indicator is enough.
func IsBadPosture(pose []models.Landmark) bool {
	if len(pose) < poseLandmarkCount {
		return false
	}

	nose := pose[poseNoseIdx]
	leftShoulder := pose[leftShoulderIdx]
	rightShoulder := pose[rightShoulderIdx]

	shoulderTilt := math.Abs(leftShoulder.Y - rightShoulder.Y)

	shoulderMidX := (leftShoulder.X + rightShoulder.X) / 2
	headOffset := math.Abs(nose.X - shoulderMidX)

	shoulderMidZ := (leftShoulder.Z + rightShoulder.Z) / 2
	slouching := nose.Z-shoulderMidZ > forwardLeanMax

	return shoulderTilt > shoulderTiltMax || headOffset > headOffsetMax || slouching
}

// HandPresent reports whether any hand was detected in the frame.
func HandPresent(hands [][]models.Landmark) bool {
	return len(hands) > 0
}
