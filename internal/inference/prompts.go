package inference

// SlotInstruction asks the model to transcribe a pre-match slot sheet.
const SlotInstruction = `Analyze this tournament slot image and extract team information.
Return ONLY a JSON array with this exact format:
[
  {
    "slot_no": 4,
    "team_members": ["Player1", "Player2", "Player3", "Player4"]
  }
]

Extract all team slots and their members. Ensure the JSON is valid and complete.`

// ResultInstruction asks the model to transcribe a post-match results
// sheet. The spatial layout description noticeably improves transcription
// accuracy on cropped or skewed photographs.
const ResultInstruction = `Analyze this tournament result image and extract ALL team result data.

The image layout is:
- LEFT SIDE: Team rank (1, 2, 3, etc.)
- CENTER: Team player names
- RIGHT SIDE: Individual finishes for each player

This image contains MULTIPLE teams. Extract ALL teams from the image.

Return ONLY a JSON array with this exact format:
[
  {
    "rank": 1,
    "team_members": ["Player1", "Player2", "Player3", "Player4"],
    "finishes": [3, 4, 4, 3],
    "total_finishes": 14
  }
]

Extract ALL teams from the image. Each team has a rank, player names, and individual finishes. Calculate total finishes for each team by summing individual finishes.`
